package model

import (
	"context"
	"slices"
	"time"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
	"go.uber.org/zap"

	appErrors "github.com/limaJavier/lesson-timetabling/pkg/errors"
	"github.com/limaJavier/lesson-timetabling/pkg/sat"
)

type constraintFamily func(state constraintState) []sat.Constraint

type fixingFamily func(state constraintState) []int64

type unassignableError struct {
	timeslot int
}

func (err unassignableError) Error() string {
	return "not all occurrences can be assigned a room"
}

// prepare validates the request and expands its assignments
func prepare(input SolveInput, timeLimit time.Duration, logger *zap.Logger) (*inputIndex, []ClassOccurrence, solveSettings, error) {
	index, err := newInputIndex(input)
	if err != nil {
		return nil, nil, solveSettings{}, err
	}

	occurrences, err := expandOccurrences(input.Assignments)
	if err != nil {
		return nil, nil, solveSettings{}, err
	}

	warnTeacherLoad(logger, input, occurrences)
	return index, occurrences, resolveSettings(input.Config, timeLimit), nil
}

// The weekly-hour cap is informative only: exceeding it is logged, never constrained
func warnTeacherLoad(logger *zap.Logger, input SolveInput, occurrences []ClassOccurrence) {
	load := lo.CountValuesBy(occurrences, func(occurrence ClassOccurrence) int { return occurrence.Teacher })
	for _, teacher := range input.Teachers {
		if teacher.MaxHoursPerWeek > 0 && load[teacher.Id] > teacher.MaxHoursPerWeek {
			logger.Warn("teacher load exceeds weekly cap",
				zap.Int("teacher_id", teacher.Id),
				zap.Int("required_periods", load[teacher.Id]),
				zap.Int("max_hours_per_week", teacher.MaxHoursPerWeek),
			)
		}
	}
}

func buildProblem(
	state constraintState,
	constraints []constraintFamily,
	fixings []fixingFamily,
	objective func(state constraintState) []sat.Term,
) *sat.Problem {
	type result struct {
		position    int
		constraints []sat.Constraint
		fixed       []int64
	}

	results := make(chan result) // Channel to collect constraints

	// Execute constraints functions on different goroutines to improve performance
	for position, constraint := range constraints {
		go func() {
			results <- result{position: position, constraints: constraint(state)}
		}()
	}
	for position, fixing := range fixings {
		go func() {
			results <- result{position: len(constraints) + position, fixed: fixing(state)}
		}()
	}

	// Collect by position rather than arrival so that the emitted model is reproducible
	collected := make([]result, len(constraints)+len(fixings))
	for range collected {
		r := <-results
		collected[r.position] = r
	}

	problem := sat.Problem{
		Variables:   state.indexer.Variables(),
		Constraints: []sat.Constraint{},
		Fixed:       []int64{},
		Seed:        state.settings.randomSeed,
	}
	fixed := make(map[int64]bool)
	for _, r := range collected {
		problem.Constraints = append(problem.Constraints, r.constraints...)
		for _, variable := range r.fixed {
			if !fixed[variable] {
				fixed[variable] = true
				problem.Fixed = append(problem.Fixed, variable)
			}
		}
	}
	problem.Objective = objective(state)

	return &problem
}

func solveWithBudget(ctx context.Context, solver sat.Solver, problem *sat.Problem, timeLimit time.Duration, logger *zap.Logger) (sat.Solution, error) {
	logger.Debug("model built",
		zap.Uint64("variables", problem.Variables),
		zap.Int("constraints", len(problem.Constraints)),
		zap.Int("fixed", len(problem.Fixed)),
		zap.Int("objective_terms", len(problem.Objective)),
	)

	ctx, cancel := context.WithTimeout(ctx, timeLimit)
	defer cancel()

	start := time.Now()
	solution, err := solver.Solve(ctx, problem)
	if err != nil {
		logger.Error("solving engine failed", zap.Error(err))
		return sat.Solution{}, appErrors.EngineFailure(err, "solving engine failed")
	}

	logger.Info("model solved",
		zap.Stringer("status", solution.Status),
		zap.Int("objective", solution.Objective),
		zap.Duration("elapsed", time.Since(start)),
	)
	return solution, nil
}

// roomAssignment gives every placement a real room. With room exclusivity the occurrences sharing a timeslot are
// matched to distinct rooms through a maximum bipartite matching
func roomAssignment(placements []placement, evaluator predicateEvaluator, rooms int, exclusive bool) ([]placement, error) {
	assigned := make([]placement, len(placements))
	copy(assigned, placements)

	if !exclusive {
		for i, placement := range assigned {
			room, ok := lo.Find(lo.Range(rooms), func(room int) bool {
				return evaluator.Compatible(placement.occurrence, room)
			})
			if !ok {
				return nil, unassignableError{timeslot: placement.timeslot}
			}
			assigned[i].room = room
		}
		return assigned, nil
	}

	simultaneous := lo.GroupBy(lo.Range(len(assigned)), func(i int) int { return assigned[i].timeslot })
	timeslots := lo.Keys(simultaneous)
	slices.Sort(timeslots)

	for _, timeslot := range timeslots {
		members := simultaneous[timeslot]

		neighbors := func(memberAny any, roomAny any) (bool, error) {
			return evaluator.Compatible(assigned[memberAny.(int)].occurrence, roomAny.(int)), nil
		}

		membersAny := lo.Map(members, func(member int, _ int) any { return member })
		roomsAny := lo.Map(lo.Range(rooms), func(room int, _ int) any { return room })

		graph, err := bipartitegraph.NewBipartiteGraph(membersAny, roomsAny, neighbors)
		if err != nil {
			return nil, err
		}

		matching := graph.LargestMatching()

		// Check the matching is a maximum one
		if len(matching) < len(members) {
			return nil, unassignableError{timeslot: timeslot}
		}

		for _, edge := range matching {
			memberIndex, room := edge.Node1, edge.Node2-len(members)
			assigned[members[memberIndex]].room = room
		}
	}

	return assigned, nil
}

func verify(output SolveOutput, input SolveInput) bool {
	index, err := newInputIndex(input)
	if err != nil {
		return false
	}
	settings := resolveSettings(input.Config, 0)
	penalties := timeslotPenalties(input.Timeslots, settings)
	timeslotPositions := make(map[int]int, len(input.Timeslots))
	for position, timeslot := range input.Timeslots {
		timeslotPositions[timeslot.Id] = position
	}

	// Required periods and number of assignments per (subject, teacher, group) triple
	expected, templates := make(map[[3]int]int), make(map[[3]int]int)
	for _, assignment := range input.Assignments {
		key := [3]int{assignment.SubjectId, assignment.TeacherId, assignment.GroupId}
		expected[key] += assignment.RequiredPeriods
		templates[key]++
	}

	type dayKey struct {
		triple [3]int
		day    string
	}

	teacherAssistance := make(map[[2]int]bool)
	groupAssistance := make(map[[2]int]bool)
	roomAssistance := make(map[[2]int]bool)
	derivedLessons := make(map[[3]int]int)
	dailyLessons := make(map[dayKey]int)
	score := 0

	for _, lesson := range output.Lessons {
		timeslot, okTimeslot := index.timeslots[lesson.TimeslotId]
		room, okRoom := index.rooms[lesson.RoomId]
		_, okSubject := index.subjects[lesson.SubjectId]
		_, okTeacher := index.teachers[lesson.TeacherId]
		_, okGroup := index.groups[lesson.GroupId]
		if !okTimeslot || !okRoom || !okSubject || !okTeacher || !okGroup {
			return false
		}

		triple := [3]int{lesson.SubjectId, lesson.TeacherId, lesson.GroupId}
		teacherKey, groupKey, roomKey := [2]int{lesson.TeacherId, timeslot.Id}, [2]int{lesson.GroupId, timeslot.Id}, [2]int{room.Id, timeslot.Id}

		// Check that:
		// - The room is big enough and of the required type
		// - The teacher is available at the timeslot
		// - The teacher is not already teaching at the timeslot
		// - The group is not already attending a lesson at the timeslot
		// - The room is not already taken at the timeslot (only when rooms are exclusive)
	// Parallel groups are checked once every lesson is known
		if !index.RoomCompatible(lesson.SubjectId, lesson.GroupId, *room) ||
			index.TeacherUnavailable(lesson.TeacherId, *timeslot) ||
			teacherAssistance[teacherKey] ||
			groupAssistance[groupKey] ||
			(settings.roomExclusive && roomAssistance[roomKey]) {
			return false
		}

		teacherAssistance[teacherKey] = true
		groupAssistance[groupKey] = true
		roomAssistance[roomKey] = true
		derivedLessons[triple]++
		dailyLessons[dayKey{triple, timeslot.Day}]++
		score += penalties[timeslotPositions[timeslot.Id]]
	}

	// Check whether the number of lessons of each triple equals the number of periods required for it
	for key, value := range expected {
		if derivedLessons[key] != value {
			return false
		}
	}
	for key := range derivedLessons {
		if _, ok := expected[key]; !ok {
			return false
		}
	}

	if settings.parallelBlock {
		for _, pair := range index.parallel {
			for _, timeslot := range input.Timeslots {
				if groupAssistance[[2]int{pair[0], timeslot.Id}] && groupAssistance[[2]int{pair[1], timeslot.Id}] {
					return false
				}
			}
		}
	}

	if settings.subjectPerDayLimit > 0 {
		for key, count := range dailyLessons {
			if count > settings.subjectPerDayLimit*templates[key.triple] {
				return false
			}
		}
	}

	return output.ObjectiveScore == nil || *output.ObjectiveScore == score
}

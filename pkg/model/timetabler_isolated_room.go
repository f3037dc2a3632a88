package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/limaJavier/lesson-timetabling/pkg/errors"
	"github.com/limaJavier/lesson-timetabling/pkg/sat"
)

// RoomAssignmentFailedNote is appended to an infeasible output when timeslots were found but rooms could not be
// matched to them
const RoomAssignmentFailedNote = "room assignment failed"

type isolatedRoomTimetabler struct {
	solver    sat.Solver
	timeLimit time.Duration
	logger    *zap.Logger
}

// NewIsolatedRoomTimetabler returns a timetabler that leaves rooms out of the model and assigns them after the
// engine has placed every occurrence in a timeslot
func NewIsolatedRoomTimetabler(solver sat.Solver, timeLimit time.Duration, logger *zap.Logger) Timetabler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &isolatedRoomTimetabler{
		solver:    solver,
		timeLimit: timeLimit,
		logger:    logger,
	}
}

func (timetabler *isolatedRoomTimetabler) Solve(ctx context.Context, input SolveInput) (SolveOutput, error) {
	logger := timetabler.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("term", input.Term),
		zap.String("strategy", "postponed"),
	)

	//** Validate and expand input
	index, occurrences, settings, err := prepare(input, timetabler.timeLimit, logger)
	if err != nil {
		return SolveOutput{}, err
	}

	//** Initialize dependencies
	isolatedEvaluator := newPredicateEvaluatorIsolatedRoom(index, occurrences)
	standardEvaluator := newPredicateEvaluator(index, occurrences)

	// A single virtual room stands for every real room
	state := constraintState{
		evaluator:     isolatedEvaluator,
		indexer:       newIndexer(len(occurrences), len(input.Timeslots), 1),
		occurrences:   occurrences,
		timeslots:     input.Timeslots,
		settings:      settings,
		parallel:      index.parallel,
		timeslotCount: len(input.Timeslots),
		roomCount:     1,
	}

	//** Build constraint model
	constraints := []constraintFamily{
		placementConstraints,
		teacherConstraints,
		groupConstraints,
		parallelGroupConstraints,
		subjectPerDayConstraints,
	}
	fixings := []fixingFamily{
		roomCompatibilityFixings,
		teacherAvailabilityFixings,
	}
	problem := buildProblem(state, constraints, fixings, objectiveTerms)

	//** Solve constraint model
	solution, err := solveWithBudget(ctx, timetabler.solver, problem, settings.timeLimit, logger)
	if err != nil {
		return SolveOutput{}, err
	} else if !solution.Status.Solved() {
		return noSolutionOutput(solution.Status), nil
	}

	//** Decode solution
	placements, err := decodePlacements(solution, state.indexer, len(occurrences))
	if err != nil {
		logger.Error("inconsistent engine solution", zap.Error(err))
		return SolveOutput{}, appErrors.EngineFailure(err, "inconsistent engine solution")
	}

	//** Assign rooms
	placements, err = roomAssignment(placements, standardEvaluator, len(input.Rooms), settings.roomExclusive)
	var unassignable unassignableError
	if errors.As(err, &unassignable) {
		logger.Warn("room assignment failed", zap.Int("timeslot_id", input.Timeslots[unassignable.timeslot].Id))
		return noSolutionOutput(sat.Infeasible, RoomAssignmentFailedNote), nil
	} else if err != nil {
		return SolveOutput{}, appErrors.EngineFailure(err, "room assignment failed")
	}

	return solvedOutput(buildLessons(placements, occurrences, input), solution, len(occurrences)), nil
}

func (timetabler *isolatedRoomTimetabler) Verify(output SolveOutput, input SolveInput) bool {
	return verify(output, input)
}

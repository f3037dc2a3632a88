package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/limaJavier/lesson-timetabling/pkg/errors"
	"github.com/limaJavier/lesson-timetabling/pkg/sat"
)

type embeddedRoomTimetabler struct {
	solver    sat.Solver
	timeLimit time.Duration
	logger    *zap.Logger
}

// NewEmbeddedRoomTimetabler returns a timetabler whose variables carry the room, so rooms are chosen by the engine
// together with the timeslots
func NewEmbeddedRoomTimetabler(solver sat.Solver, timeLimit time.Duration, logger *zap.Logger) Timetabler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &embeddedRoomTimetabler{
		solver:    solver,
		timeLimit: timeLimit,
		logger:    logger,
	}
}

func (timetabler *embeddedRoomTimetabler) Solve(ctx context.Context, input SolveInput) (SolveOutput, error) {
	logger := timetabler.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("term", input.Term),
		zap.String("strategy", "embedded"),
	)

	//** Validate and expand input
	index, occurrences, settings, err := prepare(input, timetabler.timeLimit, logger)
	if err != nil {
		return SolveOutput{}, err
	}

	//** Initialize dependencies
	state := constraintState{
		evaluator:     newPredicateEvaluator(index, occurrences),
		indexer:       newIndexer(len(occurrences), len(input.Timeslots), len(input.Rooms)),
		occurrences:   occurrences,
		timeslots:     input.Timeslots,
		settings:      settings,
		parallel:      index.parallel,
		timeslotCount: len(input.Timeslots),
		roomCount:     len(input.Rooms),
	}

	//** Build constraint model
	constraints := []constraintFamily{
		placementConstraints,
		teacherConstraints,
		groupConstraints,
		parallelGroupConstraints,
		subjectPerDayConstraints,
		roomExclusivityConstraints,
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

	return solvedOutput(buildLessons(placements, occurrences, input), solution, len(occurrences)), nil
}

func (timetabler *embeddedRoomTimetabler) Verify(output SolveOutput, input SolveInput) bool {
	return verify(output, input)
}

package model

import "time"

// DefaultTimeLimit is the wall-clock budget granted to the solving engine when neither the timetabler nor the
// request sets one
const DefaultTimeLimit = 10 * time.Second

// solveSettings is the request configuration with defaults applied
type solveSettings struct {
	subjectPerDayLimit int
	avoidFirstPeriod   bool
	avoidLastPeriod    bool
	avoidIndices       []int
	roomExclusive      bool
	parallelBlock      bool // Parallel groups never share a timeslot
	randomSeed         *int
	timeLimit          time.Duration
}

func resolveSettings(config *SolveConfig, timeLimit time.Duration) solveSettings {
	settings := solveSettings{
		avoidFirstPeriod: true,
		parallelBlock:    true,
		timeLimit:        timeLimit,
	}
	if settings.timeLimit <= 0 {
		settings.timeLimit = DefaultTimeLimit
	}
	if config == nil {
		return settings
	}

	settings.subjectPerDayLimit = config.SubjectPerDayLimit
	settings.roomExclusive = config.RoomExclusive
	settings.avoidIndices = config.AvoidIndices
	settings.parallelBlock = config.ParallelPolicy != "ALLOW"
	settings.randomSeed = config.RandomSeed
	if config.AvoidFirstPeriod != nil {
		settings.avoidFirstPeriod = *config.AvoidFirstPeriod
	}
	if config.AvoidLastPeriod != nil {
		settings.avoidLastPeriod = *config.AvoidLastPeriod
	}
	if config.SolverTimeLimitSec != nil && *config.SolverTimeLimitSec > 0 {
		settings.timeLimit = time.Duration(*config.SolverTimeLimitSec * float64(time.Second))
	}
	return settings
}

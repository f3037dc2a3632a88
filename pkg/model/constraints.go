package model

import (
	"github.com/limaJavier/lesson-timetabling/pkg/sat"
)

type constraintState struct {
	evaluator   predicateEvaluator
	indexer     indexer
	occurrences []ClassOccurrence
	timeslots   []Timeslot
	settings    solveSettings
	parallel    [][2]int // Pairs of parallel group ids

	timeslotCount,
	roomCount int
}

// Variables of the occurrence at the timeslot that are not fixed to false, in room order
func (state constraintState) eligible(occurrence, timeslot int) []int64 {
	variables := make([]int64, 0, state.roomCount)
	for room := range state.roomCount {
		if state.evaluator.Eligible(occurrence, timeslot, room) {
			variables = append(variables, state.indexer.Index(occurrence, timeslot, room))
		}
	}
	return variables
}

// Groups occurrence indexes by key, in order of first appearance
func (state constraintState) partition(key func(occurrence ClassOccurrence) int) [][]int {
	positions := make(map[int]int)
	partitions := make([][]int, 0)
	for i, occurrence := range state.occurrences {
		position, ok := positions[key(occurrence)]
		if !ok {
			position = len(partitions)
			positions[key(occurrence)] = position
			partitions = append(partitions, []int{})
		}
		partitions[position] = append(partitions[position], i)
	}
	return partitions
}

// Every occurrence is placed in exactly one (timeslot, room) pair. Fixed variables are false, so leaving them out of
// the sum does not change its meaning
func placementConstraints(state constraintState) []sat.Constraint {
	constraints := make([]sat.Constraint, 0, len(state.occurrences))
	for occurrence := range state.occurrences {
		literals := make([]int64, 0, state.timeslotCount*state.roomCount)
		for timeslot := range state.timeslotCount {
			literals = append(literals, state.eligible(occurrence, timeslot)...)
		}
		constraints = append(constraints, sat.Constraint{Literals: literals, Relation: sat.Equal, Bound: 1})
	}
	return constraints
}

// A teacher teaches at most one occurrence per timeslot, whatever the room
func teacherConstraints(state constraintState) []sat.Constraint {
	return exclusivityConstraints(state, func(occurrence ClassOccurrence) int { return occurrence.Teacher })
}

// A group attends at most one occurrence per timeslot, whatever the room
func groupConstraints(state constraintState) []sat.Constraint {
	return exclusivityConstraints(state, func(occurrence ClassOccurrence) int { return occurrence.Group })
}

func exclusivityConstraints(state constraintState, key func(occurrence ClassOccurrence) int) []sat.Constraint {
	partitions := state.partition(key)
	constraints := make([]sat.Constraint, 0)

	for timeslot := range state.timeslotCount {
		for _, members := range partitions {
			literals := make([]int64, 0, len(members)*state.roomCount)
			for _, occurrence := range members {
				literals = append(literals, state.eligible(occurrence, timeslot)...)
			}
			// A sum over a single variable is trivially at most one
			if len(literals) > 1 {
				constraints = append(constraints, sat.Constraint{Literals: literals, Relation: sat.AtMost, Bound: 1})
			}
		}
	}

	return constraints
}

// Two parallel groups share students, so their occurrences never meet at a timeslot
func parallelGroupConstraints(state constraintState) []sat.Constraint {
	if !state.settings.parallelBlock || len(state.parallel) == 0 {
		return nil
	}

	constraints := make([]sat.Constraint, 0)
	for _, pair := range state.parallel {
		members := make([]int, 0)
		for i, occurrence := range state.occurrences {
			if occurrence.Group == pair[0] || occurrence.Group == pair[1] {
				members = append(members, i)
			}
		}

		for timeslot := range state.timeslotCount {
			literals := make([]int64, 0, len(members)*state.roomCount)
			for _, occurrence := range members {
				literals = append(literals, state.eligible(occurrence, timeslot)...)
			}
			if len(literals) > 1 {
				constraints = append(constraints, sat.Constraint{Literals: literals, Relation: sat.AtMost, Bound: 1})
			}
		}
	}
	return constraints
}

// Occurrences of the same assignment are held at most subjectPerDayLimit times per day
func subjectPerDayConstraints(state constraintState) []sat.Constraint {
	limit := state.settings.subjectPerDayLimit
	if limit <= 0 {
		return nil
	}

	// Timeslots per day, days in order of first appearance
	dayPositions := make(map[string]int)
	days := make([][]int, 0)
	for timeslot := range state.timeslotCount {
		day := state.timeslots[timeslot].Day
		position, ok := dayPositions[day]
		if !ok {
			position = len(days)
			dayPositions[day] = position
			days = append(days, []int{})
		}
		days[position] = append(days[position], timeslot)
	}

	constraints := make([]sat.Constraint, 0)
	for _, members := range state.partition(func(occurrence ClassOccurrence) int { return occurrence.Assignment }) {
		for _, dayTimeslots := range days {
			literals := make([]int64, 0)
			for _, occurrence := range members {
				for _, timeslot := range dayTimeslots {
					literals = append(literals, state.eligible(occurrence, timeslot)...)
				}
			}
			if len(literals) > limit {
				constraints = append(constraints, sat.Constraint{Literals: literals, Relation: sat.AtMost, Bound: limit})
			}
		}
	}
	return constraints
}

// A room holds at most one occurrence per timeslot
func roomExclusivityConstraints(state constraintState) []sat.Constraint {
	if !state.settings.roomExclusive {
		return nil
	}

	constraints := make([]sat.Constraint, 0)
	for timeslot := range state.timeslotCount {
		for room := range state.roomCount {
			literals := make([]int64, 0)
			for occurrence := range state.occurrences {
				if state.evaluator.Eligible(occurrence, timeslot, room) {
					literals = append(literals, state.indexer.Index(occurrence, timeslot, room))
				}
			}
			if len(literals) > 1 {
				constraints = append(constraints, sat.Constraint{Literals: literals, Relation: sat.AtMost, Bound: 1})
			}
		}
	}
	return constraints
}

// Rooms that are too small or of the wrong type are closed to the occurrence at every timeslot
func roomCompatibilityFixings(state constraintState) []int64 {
	fixed := make([]int64, 0)
	for occurrence := range state.occurrences {
		for room := range state.roomCount {
			if state.evaluator.Compatible(occurrence, room) {
				continue
			}
			for timeslot := range state.timeslotCount {
				fixed = append(fixed, state.indexer.Index(occurrence, timeslot, room))
			}
		}
	}
	return fixed
}

// Timeslots in the teacher's unavailable set are closed to the occurrence in every room
func teacherAvailabilityFixings(state constraintState) []int64 {
	fixed := make([]int64, 0)
	for occurrence := range state.occurrences {
		for timeslot := range state.timeslotCount {
			if state.evaluator.TeacherAvailable(occurrence, timeslot) {
				continue
			}
			for room := range state.roomCount {
				fixed = append(fixed, state.indexer.Index(occurrence, timeslot, room))
			}
		}
	}
	return fixed
}

package model

import (
	"slices"

	"github.com/limaJavier/lesson-timetabling/pkg/sat"
)

// FirstPeriodIndex is the within-day index of the first period of a day
const FirstPeriodIndex = 1

// timeslotPenalties returns, per timeslot, the weight paid by any occurrence placed there. Each avoided index
// (first period, last period of the day, explicit indices) adds one to the weight
func timeslotPenalties(timeslots []Timeslot, settings solveSettings) []int {
	lastIndex := make(map[string]int)
	for _, timeslot := range timeslots {
		if last, ok := lastIndex[timeslot.Day]; !ok || timeslot.Index > last {
			lastIndex[timeslot.Day] = timeslot.Index
		}
	}

	penalties := make([]int, len(timeslots))
	for i, timeslot := range timeslots {
		if settings.avoidFirstPeriod && timeslot.Index == FirstPeriodIndex {
			penalties[i]++
		}
		if settings.avoidLastPeriod && timeslot.Index == lastIndex[timeslot.Day] {
			penalties[i]++
		}
		if slices.Contains(settings.avoidIndices, timeslot.Index) {
			penalties[i]++
		}
	}
	return penalties
}

// objectiveTerms builds the soft penalty sum to minimize. It only reads the variable space, so it composes with any
// set of hard constraints
func objectiveTerms(state constraintState) []sat.Term {
	penalties := timeslotPenalties(state.timeslots, state.settings)

	terms := make([]sat.Term, 0)
	for occurrence := range state.occurrences {
		for timeslot, penalty := range penalties {
			if penalty == 0 {
				continue
			}
			for _, variable := range state.eligible(occurrence, timeslot) {
				terms = append(terms, sat.Term{Literal: variable, Weight: penalty})
			}
		}
	}
	return terms
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeslotPenalties(t *testing.T) {
	timeslots := []Timeslot{
		{Id: 1, Day: "Mon", Index: 1},
		{Id: 2, Day: "Mon", Index: 2},
		{Id: 3, Day: "Mon", Index: 3},
		{Id: 4, Day: "Tue", Index: 1},
		{Id: 5, Day: "Tue", Index: 0},
	}

	testCases := []struct {
		name      string
		config    *SolveConfig
		penalties []int
	}{
		{"default", nil, []int{1, 0, 0, 1, 0}},
		{"no first period", &SolveConfig{AvoidFirstPeriod: boolPtr(false)}, []int{0, 0, 0, 0, 0}},
		{"last period", &SolveConfig{AvoidLastPeriod: boolPtr(true)}, []int{1, 0, 1, 2, 0}},
		{"avoided indices", &SolveConfig{AvoidIndices: []int{2, 1}}, []int{2, 1, 0, 2, 0}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			//** Act
			penalties := timeslotPenalties(timeslots, resolveSettings(testCase.config, 0))

			//** Assert
			assert.Equal(t, testCase.penalties, penalties)
		})
	}
}

func TestObjectiveTerms(t *testing.T) {
	//** Arrange
	state := newTestState(t, scenarioInput())

	//** Act
	terms := objectiveTerms(state)

	//** Assert
	// Timeslots 0 and 2 open a day; every occurrence pays one there
	assert.Len(t, terms, 4)
	for _, term := range terms {
		_, timeslot, _ := state.indexer.Attributes(term.Literal)
		assert.Contains(t, []int{0, 2}, timeslot)
		assert.Equal(t, 1, term.Weight)
	}
}

func TestObjectiveTermsSkipFixedVariables(t *testing.T) {
	//** Arrange
	input := scenarioInput()
	input.Teachers[0].Unavailable = []Unavailability{{Day: "Mon", SlotIndexes: []int{1}}}
	state := newTestState(t, input)

	//** Act
	terms := objectiveTerms(state)

	//** Assert
	assert.Len(t, terms, 2)
}

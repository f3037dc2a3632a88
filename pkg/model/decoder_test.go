package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/lesson-timetabling/pkg/sat"
)

func solutionOf(indexer indexer, status sat.Status, objective int, triples ...[3]int) sat.Solution {
	values := make([]bool, indexer.Variables())
	for _, triple := range triples {
		values[indexer.Index(triple[0], triple[1], triple[2])-1] = true
	}
	return sat.Solution{Status: status, Values: values, Objective: objective}
}

func TestDecodeSolution(t *testing.T) {
	//** Arrange
	input := scenarioInput()
	state := newTestState(t, input)
	solution := solutionOf(state.indexer, sat.Optimal, 1, [3]int{0, 2, 0}, [3]int{1, 1, 0})

	//** Act
	placements, err := decodePlacements(solution, state.indexer, len(state.occurrences))
	require.NoError(t, err)
	output := solvedOutput(buildLessons(placements, state.occurrences, input), solution, len(state.occurrences))

	//** Assert
	assert.Equal(t, []Lesson{
		{SubjectId: 10, TeacherId: 1, GroupId: 1000, RoomId: 100, TimeslotId: 3},
		{SubjectId: 10, TeacherId: 1, GroupId: 1000, RoomId: 100, TimeslotId: 2},
	}, output.Lessons)
	require.NotNil(t, output.ObjectiveScore)
	assert.Equal(t, 1, *output.ObjectiveScore)
	assert.Equal(t, []string{"classes=2", "status=OPTIMAL"}, output.Notes)
}

func TestDecodeInconsistentSolution(t *testing.T) {
	state := newTestState(t, scenarioInput())

	testCases := []struct {
		name     string
		solution sat.Solution
	}{
		{"missing placement", solutionOf(state.indexer, sat.Feasible, 0, [3]int{0, 1, 0})},
		{"double placement", solutionOf(state.indexer, sat.Feasible, 0, [3]int{0, 1, 0}, [3]int{0, 2, 0}, [3]int{1, 0, 0})},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			//** Act
			_, err := decodePlacements(testCase.solution, state.indexer, len(state.occurrences))

			//** Assert
			assert.Error(t, err)
		})
	}
}

func TestNoSolutionOutput(t *testing.T) {
	//** Act
	output := noSolutionOutput(sat.Timeout)

	//** Assert
	assert.NotNil(t, output.Lessons)
	assert.Empty(t, output.Lessons)
	assert.Nil(t, output.ObjectiveScore)
	assert.Equal(t, []string{NoFeasibleSolutionNote, "status=TIMEOUT"}, output.Notes)
}

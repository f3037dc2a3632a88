package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func stringPtr(value string) *string {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

// A single teacher and group needing two periods out of three timeslots, two of which open a day
func scenarioInput() SolveInput {
	return SolveInput{
		Term:        "2024-1",
		Teachers:    []Teacher{{Id: 1, Name: "Ada"}},
		Subjects:    []Subject{{Id: 10, Code: "MTH", Name: "Math"}},
		Rooms:       []Room{{Id: 100, Name: "R1", Capacity: 30, RoomType: "classroom"}},
		Groups:      []Group{{Id: 1000, Name: "G1", Size: 25}},
		Assignments: []Assignment{{Id: 1, SubjectId: 10, TeacherId: 1, GroupId: 1000, RequiredPeriods: 2}},
		Timeslots: []Timeslot{
			{Id: 1, Day: "Mon", Index: 1},
			{Id: 2, Day: "Mon", Index: 2},
			{Id: 3, Day: "Tue", Index: 1},
		},
	}
}

func schoolInput() SolveInput {
	timeslots := make([]Timeslot, 0, 8)
	for day, name := range []string{"Mon", "Tue"} {
		for index := 1; index <= 4; index++ {
			timeslots = append(timeslots, Timeslot{Id: 10*(day+1) + index, Day: name, Index: index})
		}
	}

	return SolveInput{
		Term: "2024-2",
		Teachers: []Teacher{
			{Id: 1, Name: "Ada", MaxHoursPerWeek: 10},
			{Id: 2, Name: "Grace", Unavailable: []Unavailability{{Day: "Mon", SlotIndexes: []int{1, 2}}}},
			{Id: 3, Name: "Alan", MaxHoursPerWeek: 4},
		},
		Subjects: []Subject{
			{Id: 10, Code: "MTH", Name: "Math"},
			{Id: 20, Code: "SCI", Name: "Science", RequiresRoomType: stringPtr("lab")},
			{Id: 30, Code: "LIT", Name: "Literature"},
			{Id: 40, Code: "ART", Name: "Art", RequiresRoomType: stringPtr("")},
		},
		Rooms: []Room{
			{Id: 100, Name: "A", Capacity: 30, RoomType: "classroom"},
			{Id: 101, Name: "B", Capacity: 20, RoomType: "classroom"},
			{Id: 102, Name: "Lab", Capacity: 30, RoomType: "lab"},
		},
		Groups: []Group{
			{Id: 1000, Name: "G1", Size: 25},
			{Id: 1001, Name: "G2", Size: 18},
			{Id: 1002, Name: "G3", Size: 28},
		},
		Assignments: []Assignment{
			{Id: 1, SubjectId: 10, TeacherId: 1, GroupId: 1000, RequiredPeriods: 2},
			{Id: 2, SubjectId: 10, TeacherId: 1, GroupId: 1001, RequiredPeriods: 2},
			{Id: 3, SubjectId: 20, TeacherId: 2, GroupId: 1000, RequiredPeriods: 1},
			{Id: 4, SubjectId: 20, TeacherId: 2, GroupId: 1002, RequiredPeriods: 2},
			{Id: 5, SubjectId: 30, TeacherId: 3, GroupId: 1001, RequiredPeriods: 2},
			{Id: 6, SubjectId: 30, TeacherId: 3, GroupId: 1002, RequiredPeriods: 2},
			{Id: 7, SubjectId: 40, TeacherId: 3, GroupId: 1000, RequiredPeriods: 1},
		},
		Timeslots: timeslots,
	}
}

// newTestState builds the embedded-room model state of an input
func newTestState(t *testing.T, input SolveInput) constraintState {
	index, err := newInputIndex(input)
	require.NoError(t, err)
	occurrences, err := expandOccurrences(input.Assignments)
	require.NoError(t, err)

	return constraintState{
		evaluator:     newPredicateEvaluator(index, occurrences),
		indexer:       newIndexer(len(occurrences), len(input.Timeslots), len(input.Rooms)),
		occurrences:   occurrences,
		timeslots:     input.Timeslots,
		settings:      resolveSettings(input.Config, 0),
		parallel:      index.parallel,
		timeslotCount: len(input.Timeslots),
		roomCount:     len(input.Rooms),
	}
}

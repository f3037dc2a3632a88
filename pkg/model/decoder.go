package model

import (
	"fmt"

	"github.com/limaJavier/lesson-timetabling/pkg/sat"
)

const NoFeasibleSolutionNote = "No feasible solution"

// placement is the decoded position of one occurrence; indexes refer to the request's timeslot and room slices
type placement struct {
	occurrence int
	timeslot   int
	room       int
}

// decodePlacements reads the single true variable of every occurrence. Anything other than exactly one true
// variable per occurrence means the engine broke the placement constraint
func decodePlacements(solution sat.Solution, indexer indexer, occurrences int) ([]placement, error) {
	placements := make([]placement, occurrences)
	placed := make([]bool, occurrences)

	for variable := int64(1); variable <= int64(indexer.Variables()); variable++ {
		if !solution.Value(variable) {
			continue
		}

		occurrence, timeslot, room := indexer.Attributes(variable)
		if placed[occurrence] {
			return nil, fmt.Errorf("occurrence %d placed more than once (%v)", occurrence, indexer.Name(variable))
		}
		placed[occurrence] = true
		placements[occurrence] = placement{occurrence, timeslot, room}
	}

	for occurrence, ok := range placed {
		if !ok {
			return nil, fmt.Errorf("occurrence %d has no placement", occurrence)
		}
	}
	return placements, nil
}

func buildLessons(placements []placement, occurrences []ClassOccurrence, input SolveInput) []Lesson {
	lessons := make([]Lesson, 0, len(placements))
	for _, placement := range placements {
		occurrence := occurrences[placement.occurrence]
		lessons = append(lessons, Lesson{
			SubjectId:  occurrence.Subject,
			TeacherId:  occurrence.Teacher,
			GroupId:    occurrence.Group,
			RoomId:     input.Rooms[placement.room].Id,
			TimeslotId: input.Timeslots[placement.timeslot].Id,
		})
	}
	return lessons
}

func solvedOutput(lessons []Lesson, solution sat.Solution, occurrences int) SolveOutput {
	score := solution.Objective
	return SolveOutput{
		Lessons:        lessons,
		ObjectiveScore: &score,
		Notes: []string{
			fmt.Sprintf("classes=%d", occurrences),
			statusNote(solution.Status),
		},
	}
}

// noSolutionOutput is the success-shaped response of an infeasible or timed out solve
func noSolutionOutput(status sat.Status, extraNotes ...string) SolveOutput {
	return SolveOutput{
		Lessons: []Lesson{},
		Notes:   append([]string{NoFeasibleSolutionNote, statusNote(status)}, extraNotes...),
	}
}

func statusNote(status sat.Status) string {
	return "status=" + status.String()
}

package model

import appErrors "github.com/limaJavier/lesson-timetabling/pkg/errors"

// expandOccurrences turns every assignment into RequiredPeriods consecutive occurrences, in assignment order.
// The order defines the occurrence indexes of the variable space, so it must stay stable across runs
func expandOccurrences(assignments []Assignment) ([]ClassOccurrence, error) {
	total := 0
	for _, assignment := range assignments {
		if assignment.RequiredPeriods < 0 {
			return nil, appErrors.Validation("assignment %d has negative required periods: %d", assignment.Id, assignment.RequiredPeriods)
		}
		total += assignment.RequiredPeriods
	}

	occurrences := make([]ClassOccurrence, 0, total)
	for _, assignment := range assignments {
		for range assignment.RequiredPeriods {
			occurrences = append(occurrences, ClassOccurrence{
				Subject:    assignment.SubjectId,
				Teacher:    assignment.TeacherId,
				Group:      assignment.GroupId,
				Assignment: assignment.Id,
			})
		}
	}
	return occurrences, nil
}

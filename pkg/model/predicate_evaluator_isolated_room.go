package model

import "github.com/samber/lo"

// predicateEvaluatorIsolatedRoom collapses the room dimension into a single virtual room, compatible with an
// occurrence whenever at least one real room is
type predicateEvaluatorIsolatedRoom struct {
	standard predicateEvaluatorStandard
	anyRoom  []bool
}

func newPredicateEvaluatorIsolatedRoom(index *inputIndex, occurrences []ClassOccurrence) predicateEvaluator {
	standard := newPredicateEvaluator(index, occurrences).(*predicateEvaluatorStandard)

	return &predicateEvaluatorIsolatedRoom{
		standard: *standard,
		anyRoom: lo.Map(standard.compatible, func(row []bool, _ int) bool {
			return lo.Contains(row, true)
		}),
	}
}

func (evaluator *predicateEvaluatorIsolatedRoom) Compatible(occurrence, _ int) bool {
	return evaluator.anyRoom[occurrence]
}

func (evaluator *predicateEvaluatorIsolatedRoom) TeacherAvailable(occurrence, timeslot int) bool {
	return evaluator.standard.TeacherAvailable(occurrence, timeslot)
}

func (evaluator *predicateEvaluatorIsolatedRoom) Eligible(occurrence, timeslot, room int) bool {
	return evaluator.Compatible(occurrence, room) && evaluator.TeacherAvailable(occurrence, timeslot)
}

package model

type predicateEvaluator interface {
	// Checks whether the occurrence's group fits in the room and the room has the type required by the occurrence's subject
	Compatible(occurrence, room int) bool

	// Checks whether the occurrence's teacher is available at the timeslot
	TeacherAvailable(occurrence, timeslot int) bool

	// Checks whether the variable (occurrence, timeslot, room) is not structurally fixed to false
	Eligible(occurrence, timeslot, room int) bool
}

func newPredicateEvaluator(index *inputIndex, occurrences []ClassOccurrence) predicateEvaluator {
	rooms, timeslots := index.input.Rooms, index.input.Timeslots

	evaluator := predicateEvaluatorStandard{
		compatible: make([][]bool, len(occurrences)),
		available:  make(map[int][]bool),
		teachers:   make([]int, len(occurrences)),
	}

	// Compatibility only depends on the (subject, group) pair, so occurrences of the same assignment share a row
	rows := make(map[[2]int][]bool)
	for i, occurrence := range occurrences {
		key := [2]int{occurrence.Subject, occurrence.Group}
		row, ok := rows[key]
		if !ok {
			row = make([]bool, len(rooms))
			for room := range rooms {
				row[room] = index.RoomCompatible(occurrence.Subject, occurrence.Group, rooms[room])
			}
			rows[key] = row
		}
		evaluator.compatible[i] = row
		evaluator.teachers[i] = occurrence.Teacher

		if _, ok := evaluator.available[occurrence.Teacher]; !ok {
			availability := make([]bool, len(timeslots))
			for timeslot := range timeslots {
				availability[timeslot] = !index.TeacherUnavailable(occurrence.Teacher, timeslots[timeslot])
			}
			evaluator.available[occurrence.Teacher] = availability
		}
	}

	return &evaluator
}

type predicateEvaluatorStandard struct {
	compatible [][]bool       // Occurrence x room
	available  map[int][]bool // Teacher id -> availability per timeslot
	teachers   []int          // Occurrence -> teacher id
}

func (evaluator *predicateEvaluatorStandard) Compatible(occurrence, room int) bool {
	return evaluator.compatible[occurrence][room]
}

func (evaluator *predicateEvaluatorStandard) TeacherAvailable(occurrence, timeslot int) bool {
	return evaluator.available[evaluator.teachers[occurrence]][timeslot]
}

func (evaluator *predicateEvaluatorStandard) Eligible(occurrence, timeslot, room int) bool {
	return evaluator.Compatible(occurrence, room) && evaluator.TeacherAvailable(occurrence, timeslot)
}

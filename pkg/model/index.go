package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/limaJavier/lesson-timetabling/pkg/errors"
)

var validate = validator.New()

type slotKey struct {
	day   string
	index int
}

// inputIndex holds the id-keyed lookup tables of a request, built once per solve
type inputIndex struct {
	input       SolveInput
	teachers    map[int]*Teacher
	subjects    map[int]*Subject
	rooms       map[int]*Room
	groups      map[int]*Group
	timeslots   map[int]*Timeslot
	unavailable map[int]map[slotKey]bool // Teacher id -> unavailable (day, index) pairs
	parallel    [][2]int                 // Distinct pairs of parallel group ids, lower id first
}

func newInputIndex(input SolveInput) (*inputIndex, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	index := inputIndex{
		input:       input,
		teachers:    make(map[int]*Teacher, len(input.Teachers)),
		subjects:    make(map[int]*Subject, len(input.Subjects)),
		rooms:       make(map[int]*Room, len(input.Rooms)),
		groups:      make(map[int]*Group, len(input.Groups)),
		timeslots:   make(map[int]*Timeslot, len(input.Timeslots)),
		unavailable: make(map[int]map[slotKey]bool, len(input.Teachers)),
	}

	for i := range input.Teachers {
		teacher := &input.Teachers[i]
		if _, ok := index.teachers[teacher.Id]; ok {
			return nil, appErrors.Validation("duplicate teacher id %d", teacher.Id)
		}
		index.teachers[teacher.Id] = teacher

		slots := make(map[slotKey]bool)
		for _, unavailability := range teacher.Unavailable {
			for _, slotIndex := range unavailability.SlotIndexes {
				slots[slotKey{unavailability.Day, slotIndex}] = true
			}
		}
		index.unavailable[teacher.Id] = slots
	}
	for i := range input.Subjects {
		if _, ok := index.subjects[input.Subjects[i].Id]; ok {
			return nil, appErrors.Validation("duplicate subject id %d", input.Subjects[i].Id)
		}
		index.subjects[input.Subjects[i].Id] = &input.Subjects[i]
	}
	for i := range input.Rooms {
		if _, ok := index.rooms[input.Rooms[i].Id]; ok {
			return nil, appErrors.Validation("duplicate room id %d", input.Rooms[i].Id)
		}
		index.rooms[input.Rooms[i].Id] = &input.Rooms[i]
	}
	for i := range input.Groups {
		if _, ok := index.groups[input.Groups[i].Id]; ok {
			return nil, appErrors.Validation("duplicate group id %d", input.Groups[i].Id)
		}
		index.groups[input.Groups[i].Id] = &input.Groups[i]
	}
	for i := range input.Timeslots {
		if _, ok := index.timeslots[input.Timeslots[i].Id]; ok {
			return nil, appErrors.Validation("duplicate timeslot id %d", input.Timeslots[i].Id)
		}
		index.timeslots[input.Timeslots[i].Id] = &input.Timeslots[i]
	}

	pairs := make(map[[2]int]bool)
	for _, group := range input.Groups {
		for _, other := range group.ParallelWithIds {
			if _, ok := index.groups[other]; !ok {
				return nil, appErrors.Reference("group %d is parallel with unknown group %d", group.Id, other)
			} else if other == group.Id {
				continue
			}
			pair := [2]int{min(group.Id, other), max(group.Id, other)}
			if !pairs[pair] {
				pairs[pair] = true
				index.parallel = append(index.parallel, pair)
			}
		}
	}

	// Referential integrity of the requirement templates
	assignments := make(map[int]bool, len(input.Assignments))
	for _, assignment := range input.Assignments {
		if assignments[assignment.Id] {
			return nil, appErrors.Validation("duplicate assignment id %d", assignment.Id)
		}
		assignments[assignment.Id] = true

		if _, ok := index.subjects[assignment.SubjectId]; !ok {
			return nil, appErrors.Reference("assignment %d references unknown subject %d", assignment.Id, assignment.SubjectId)
		} else if _, ok := index.teachers[assignment.TeacherId]; !ok {
			return nil, appErrors.Reference("assignment %d references unknown teacher %d", assignment.Id, assignment.TeacherId)
		} else if _, ok := index.groups[assignment.GroupId]; !ok {
			return nil, appErrors.Reference("assignment %d references unknown group %d", assignment.Id, assignment.GroupId)
		}
	}

	return &index, nil
}

func validateInput(input SolveInput) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fieldError := fieldErrors[0]
		return appErrors.Wrap(err, appErrors.CodeValidation, fmt.Sprintf("invalid field %s: must satisfy %s=%s, got %v", fieldError.Namespace(), fieldError.Tag(), fieldError.Param(), fieldError.Value()))
	}
	return appErrors.Wrap(err, appErrors.CodeValidation, "invalid input")
}

// Checks whether the teacher cannot teach at the timeslot
func (index *inputIndex) TeacherUnavailable(teacher int, timeslot Timeslot) bool {
	return index.unavailable[teacher][slotKey{timeslot.Day, timeslot.Index}]
}

// Checks whether the group fits in the room and the room has the type required by the subject (if any)
func (index *inputIndex) RoomCompatible(subject, group int, room Room) bool {
	requiredType := index.subjects[subject].requiredRoomType()
	return room.Capacity >= index.groups[group].Size && (requiredType == "" || requiredType == room.RoomType)
}

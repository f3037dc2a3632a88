package model

import "fmt"

// indexer gives a unique variable to every (occurrence, timeslot, room) triple and vice versa
type indexer interface {
	// Returns the 1-based variable of a triple
	Index(occurrence, timeslot, room int) int64
	// Returns the triple of a variable
	Attributes(variable int64) (occurrence, timeslot, room int)
	// Returns the number of allocated variables
	Variables() uint64
	// Returns the human readable name of a variable
	Name(variable int64) string
}

// variableSpace lays variables out occurrence-major: 1 + occurrence*T*R + timeslot*R + room
type variableSpace struct {
	occurrences int
	timeslots   int
	rooms       int
}

func newIndexer(occurrences, timeslots, rooms int) indexer {
	return &variableSpace{
		occurrences: occurrences,
		timeslots:   timeslots,
		rooms:       rooms,
	}
}

func (space *variableSpace) Index(occurrence, timeslot, room int) int64 {
	return int64(room+space.rooms*timeslot+space.rooms*space.timeslots*occurrence) + 1
}

func (space *variableSpace) Attributes(variable int64) (occurrence, timeslot, room int) {
	index := int(variable - 1)
	room = index % space.rooms
	index = index / space.rooms

	timeslot = index % space.timeslots
	index = index / space.timeslots

	occurrence = index
	return occurrence, timeslot, room
}

func (space *variableSpace) Variables() uint64 {
	return uint64(space.occurrences) * uint64(space.timeslots) * uint64(space.rooms)
}

func (space *variableSpace) Name(variable int64) string {
	occurrence, timeslot, room := space.Attributes(variable)
	return fmt.Sprintf("x_c%d_t%d_r%d", occurrence, timeslot, room)
}

package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"

	appErrors "github.com/limaJavier/lesson-timetabling/pkg/errors"
)

type Unavailability struct {
	Day         string `json:"day" mapstructure:"day"`
	SlotIndexes []int  `json:"slotIndexes" mapstructure:"slotIndexes"`
}

type Teacher struct {
	Id              int              `json:"id" mapstructure:"id"`
	Name            string           `json:"name" mapstructure:"name"`
	MaxHoursPerWeek int              `json:"maxHoursPerWeek" mapstructure:"maxHoursPerWeek"` // Carried through but never constrained
	Unavailable     []Unavailability `json:"unavailable" mapstructure:"unavailable" validate:"dive"`
}

type Subject struct {
	Id               int     `json:"id" mapstructure:"id"`
	Code             string  `json:"code" mapstructure:"code"`
	Name             string  `json:"name" mapstructure:"name"`
	RequiresRoomType *string `json:"requiresRoomType,omitempty" mapstructure:"requiresRoomType"`
	RoomType         string  `json:"roomType,omitempty" mapstructure:"roomType"` // Older callers' name for RequiresRoomType
}

// requiredRoomType is the room type the subject needs, "" when any room will do
func (subject Subject) requiredRoomType() string {
	if subject.RequiresRoomType != nil {
		return *subject.RequiresRoomType
	}
	return subject.RoomType
}

type Room struct {
	Id       int    `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	Capacity int    `json:"capacity" mapstructure:"capacity" validate:"gte=0"`
	RoomType string `json:"roomType" mapstructure:"roomType"`
}

type Group struct {
	Id              int    `json:"id" mapstructure:"id"`
	Name            string `json:"name" mapstructure:"name"`
	Size            int    `json:"size" mapstructure:"size" validate:"gte=0"`
	ParallelWithIds []int  `json:"parallelWithIds,omitempty" mapstructure:"parallelWithIds"` // Groups sharing students with this one
}

// Assignment is a requirement template: it is never scheduled itself but expanded into RequiredPeriods occurrences
type Assignment struct {
	Id              int `json:"id" mapstructure:"id"`
	SubjectId       int `json:"subjectId" mapstructure:"subjectId"`
	TeacherId       int `json:"teacherId" mapstructure:"teacherId"`
	GroupId         int `json:"groupId" mapstructure:"groupId"`
	RequiredPeriods int `json:"requiredPeriods" mapstructure:"requiredPeriods" validate:"gte=0"`
}

type Timeslot struct {
	Id    int    `json:"id" mapstructure:"id"`
	Day   string `json:"day" mapstructure:"day"`
	Index int    `json:"index" mapstructure:"index" validate:"gte=0"`
}

// SolveConfig holds optional per-request tuning; every field left empty keeps the default model
type SolveConfig struct {
	SubjectPerDayLimit int      `json:"subjectPerDayLimit,omitempty" mapstructure:"subjectPerDayLimit" validate:"gte=0"`
	AvoidFirstPeriod   *bool    `json:"avoidFirstPeriod,omitempty" mapstructure:"avoidFirstPeriod"`
	AvoidLastPeriod    *bool    `json:"avoidLastPeriod,omitempty" mapstructure:"avoidLastPeriod"`
	AvoidIndices       []int    `json:"avoidIndices,omitempty" mapstructure:"avoidIndices"`
	RoomExclusive      bool     `json:"roomExclusive,omitempty" mapstructure:"roomExclusive"`
	SolverTimeLimitSec *float64 `json:"solverTimeLimitSec,omitempty" mapstructure:"solverTimeLimitSec" validate:"omitempty,gte=0,lte=86400"`
	ParallelPolicy     string   `json:"parallelPolicy,omitempty" mapstructure:"parallelPolicy" validate:"omitempty,oneof=BLOCK ALLOW"`
	RandomSeed         *int     `json:"randomSeed,omitempty" mapstructure:"randomSeed" validate:"omitempty,gte=0,lte=2147483646"`
}

type SolveInput struct {
	Term        string       `json:"term" mapstructure:"term"`
	Teachers    []Teacher    `json:"teachers" mapstructure:"teachers" validate:"dive"`
	Subjects    []Subject    `json:"subjects" mapstructure:"subjects" validate:"dive"`
	Rooms       []Room       `json:"rooms" mapstructure:"rooms" validate:"dive"`
	Groups      []Group      `json:"groups" mapstructure:"groups" validate:"dive"`
	Assignments []Assignment `json:"assignments" mapstructure:"assignments" validate:"dive"`
	Timeslots   []Timeslot   `json:"timeslots" mapstructure:"timeslots" validate:"dive"`
	Config      *SolveConfig `json:"config,omitempty" mapstructure:"config"`
}

type Lesson struct {
	SubjectId  int `json:"subjectId"`
	TeacherId  int `json:"teacherId"`
	GroupId    int `json:"groupId"`
	RoomId     int `json:"roomId"`
	TimeslotId int `json:"timeslotId"`
}

type SolveOutput struct {
	Lessons        []Lesson `json:"lessons"`
	ObjectiveScore *int     `json:"objectiveScore,omitempty"`
	Notes          []string `json:"notes"`
}

// ClassOccurrence is one required period of an assignment; occurrences of the same assignment are interchangeable
type ClassOccurrence struct {
	Subject    int
	Teacher    int
	Group      int
	Assignment int
}

func InputFromJson(file string) (SolveInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return SolveInput{}, appErrors.Wrap(err, appErrors.CodeValidation, "cannot read input file")
	}
	return InputFromBytes(bytes)
}

func InputFromBytes(bytes []byte) (SolveInput, error) {
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return SolveInput{}, appErrors.Wrap(err, appErrors.CodeValidation, "malformed input json")
	}

	var input SolveInput
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  integralNumbers,
		ErrorUnused: true,
		Result:      &input,
	})
	if err != nil {
		return SolveInput{}, err
	}
	if err := decoder.Decode(inputJson); err != nil {
		return SolveInput{}, appErrors.Wrap(err, appErrors.CodeValidation, "cannot decode input")
	}
	return input, nil
}

// integralNumbers refuses JSON numbers with a fractional part where an integer is expected
func integralNumbers(_ reflect.Type, to reflect.Type, data any) (any, error) {
	value, ok := data.(float64)
	if !ok {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if value != math.Trunc(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("%v is not an integer", value)
		}
	}
	return data, nil
}

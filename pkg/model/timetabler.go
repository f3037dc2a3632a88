package model

import "context"

type Timetabler interface {
	// Solve builds the constraint model of the request, runs the solving engine within the time budget and decodes
	// its answer. Infeasibility is reported through the output (empty lessons plus notes), never as an error
	Solve(
		ctx context.Context,
		input SolveInput,
	) (SolveOutput, error)

	// Verify checks a solved output against every hard constraint and the objective score
	Verify(
		output SolveOutput,
		input SolveInput,
	) bool
}

package sat

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// dimacsRun executes one external decision call and returns its result with the true/false literals it printed
type dimacsRun func(ctx context.Context, sat SAT) (result int, literals []int64, err error)

// solveDimacs minimizes the problem through an external DIMACS engine, re-encoding the CNF on every descent step
func solveDimacs(ctx context.Context, problem *Problem, run dimacsRun) (Solution, error) {
	if err := problem.validate(); err != nil {
		return Solution{}, err
	} else if problem.TriviallyInfeasible() {
		return Solution{Status: Infeasible}, nil
	}

	return minimize(ctx, problem, func(ctx context.Context, bound int) (int, []bool, error) {
		result, literals, err := run(ctx, problem.ToCNF(bound))
		if err != nil || result != satisfiable {
			return result, nil, err
		}
		return result, valuesFromLiterals(literals, problem.Variables), nil
	})
}

// runCommand runs an engine binary. Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
func runCommand(ctx context.Context, cmd *exec.Cmd, name string) (result int, stdOut string, err error) {
	var stdOutBuffer bytes.Buffer
	cmd.Stdout = &stdOutBuffer
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() != nil { // Killed on deadline
		return unknown, "", nil
	} else if cmd.ProcessState == nil {
		return unknown, "", fmt.Errorf("cannot start %v: %w", name, err)
	}

	switch cmd.ProcessState.ExitCode() {
	case 10:
		return satisfiable, stdOutBuffer.String(), nil
	case 20:
		return unsatisfiable, "", nil
	}
	return unknown, "", fmt.Errorf("an error occurred during %v execution: %v : %v", name, err, stderr.String())
}

// seedArgs renders the engine's seed option, if a seed was requested
func seedArgs(seed *int, format string) []string {
	if seed == nil {
		return nil
	}
	return []string{fmt.Sprintf(format, *seed)}
}

// parseSolution reads the literals of the "v" lines of a SAT competition output
func parseSolution(solverOutput string) ([]int64, error) {
	fields := lo.FlatMap(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(line string, _ int) []string {
			return strings.Fields(line[1:])
		},
	)
	return parseLiterals(fields)
}

func parseLiterals(fields []string) ([]int64, error) {
	literals := make([]int64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in solver output: %w", err)
		} else if value == 0 { // Terminator
			break
		}
		literals = append(literals, value)
	}
	return literals, nil
}

// valuesFromLiterals keeps the problem's own variables; auxiliary encoding variables are dropped
func valuesFromLiterals(literals []int64, variables uint64) []bool {
	values := make([]bool, variables)
	for _, literal := range literals {
		if literal > 0 && uint64(literal) <= variables {
			values[literal-1] = true
		}
	}
	return values
}

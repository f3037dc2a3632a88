package sat

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type minisatSolver struct {
	path string
}

func NewMinisatSolver(path string) Solver {
	if path == "" {
		path = "minisat"
	}
	return &minisatSolver{path: path}
}

func (solver *minisatSolver) Solve(ctx context.Context, problem *Problem) (Solution, error) {
	return solveDimacs(ctx, problem, solver.run)
}

func (solver *minisatSolver) run(ctx context.Context, sat SAT) (int, []int64, error) {
	// Create a temporary file to hold the DIMACS content
	inputTempFile, err := os.CreateTemp("", "dimacs-*.cnf")
	if err != nil {
		return unknown, nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(inputTempFile.Name()) // Ensure the file is removed after execution

	outputTempFile, err := os.CreateTemp("", "minisat_output-*.cnf")
	if err != nil {
		return unknown, nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(outputTempFile.Name())
	outputTempFile.Close()

	// Write the DIMACS content to the temporary file
	if _, err := inputTempFile.WriteString(sat.ToDIMACS()); err != nil {
		inputTempFile.Close()
		return unknown, nil, fmt.Errorf("failed to write DIMACS to temporary file: %w", err)
	}
	if err := inputTempFile.Close(); err != nil {
		return unknown, nil, fmt.Errorf("failed to close temporary file: %w", err)
	}

	// minisat only accepts strictly positive seeds
	seed := sat.Seed
	if seed != nil {
		shifted := *seed + 1
		seed = &shifted
	}
	args := append([]string{"-verb=0"}, seedArgs(seed, "-rnd-seed=%d")...)
	cmd := exec.CommandContext(ctx, solver.path, append(args, inputTempFile.Name(), outputTempFile.Name())...)
	result, _, err := runCommand(ctx, cmd, "minisat")
	if err != nil || result != satisfiable {
		return result, nil, err
	}

	output, err := os.ReadFile(outputTempFile.Name())
	if err != nil {
		return unknown, nil, fmt.Errorf("failed to read output file: %w", err)
	}
	literals, err := parseMinisatOutput(string(output))
	return result, literals, err
}

// The first line of the result file is the verdict, the second one the model
func parseMinisatOutput(solverOutput string) ([]int64, error) {
	lines := strings.Split(solverOutput, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != "SAT" {
		return nil, fmt.Errorf("unexpected minisat output: %q", solverOutput)
	}
	return parseLiterals(strings.Fields(lines[1]))
}

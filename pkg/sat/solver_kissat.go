package sat

import (
	"context"
	"os/exec"
	"strings"
)

type kissatSolver struct {
	path string
}

func NewKissatSolver(path string) Solver {
	if path == "" {
		path = "kissat"
	}
	return &kissatSolver{path: path}
}

func (solver *kissatSolver) Solve(ctx context.Context, problem *Problem) (Solution, error) {
	return solveDimacs(ctx, problem, solver.run)
}

func (solver *kissatSolver) run(ctx context.Context, sat SAT) (int, []int64, error) {
	args := append([]string{"-q", "--relaxed"}, seedArgs(sat.Seed, "--seed=%d")...)
	cmd := exec.CommandContext(ctx, solver.path, args...)
	cmd.Stdin = strings.NewReader(sat.ToDIMACS()) // Feed dimacs into kissat's standard input

	result, output, err := runCommand(ctx, cmd, "kissat")
	if err != nil || result != satisfiable {
		return result, nil, err
	}
	literals, err := parseSolution(output)
	return result, literals, err
}

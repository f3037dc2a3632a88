package sat

import (
	"context"
	"os/exec"
	"strings"
)

type cadicalSolver struct {
	path string
}

func NewCadicalSolver(path string) Solver {
	if path == "" {
		path = "cadical"
	}
	return &cadicalSolver{path: path}
}

func (solver *cadicalSolver) Solve(ctx context.Context, problem *Problem) (Solution, error) {
	return solveDimacs(ctx, problem, solver.run)
}

func (solver *cadicalSolver) run(ctx context.Context, sat SAT) (int, []int64, error) {
	args := append([]string{"-q"}, seedArgs(sat.Seed, "--seed=%d")...)
	cmd := exec.CommandContext(ctx, solver.path, args...)
	cmd.Stdin = strings.NewReader(sat.ToDIMACS()) // Feed dimacs into cadical's standard input

	result, output, err := runCommand(ctx, cmd, "cadical")
	if err != nil || result != satisfiable {
		return result, nil, err
	}
	literals, err := parseSolution(output)
	return result, literals, err
}

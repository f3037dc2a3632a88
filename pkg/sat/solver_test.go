package sat

import (
	"context"
	"math/rand/v2"
	"os/exec"
	"testing"
	"time"

	gophersat "github.com/crillab/gophersat/solver"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const randomProblems = 40

func TestGini(t *testing.T) {
	solver := NewGiniSolver()
	t.Run("Small instances", func(t *testing.T) {
		smallExecution(t, solver)
	})
	t.Run("Random instances", func(t *testing.T) {
		randomExecution(t, solver)
	})
}

func TestGophersat(t *testing.T) {
	solver := NewGophersatSolver()
	t.Run("Small instances", func(t *testing.T) {
		smallExecution(t, solver)
	})
	t.Run("Random instances", func(t *testing.T) {
		randomExecution(t, solver)
	})
}

func TestKissat(t *testing.T) {
	requireExecutable(t, "kissat")
	solver := NewKissatSolver("kissat")
	t.Run("Small instances", func(t *testing.T) {
		smallExecution(t, solver)
	})
}

func TestCadical(t *testing.T) {
	requireExecutable(t, "cadical")
	solver := NewCadicalSolver("cadical")
	t.Run("Small instances", func(t *testing.T) {
		smallExecution(t, solver)
	})
}

func TestMinisat(t *testing.T) {
	requireExecutable(t, "minisat")
	solver := NewMinisatSolver("minisat")
	t.Run("Small instances", func(t *testing.T) {
		smallExecution(t, solver)
	})
}

func TestGiniExpiredBudget(t *testing.T) {
	//** Arrange
	problem := &Problem{
		Variables:   2,
		Constraints: []Constraint{{Literals: []int64{1, 2}, Relation: Equal, Bound: 1}},
	}
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	//** Act
	solution, err := NewGiniSolver().Solve(ctx, problem)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, Timeout, solution.Status)
}

func TestGophersatExpiredBudget(t *testing.T) {
	//** Arrange
	problem := &Problem{
		Variables:   2,
		Constraints: []Constraint{{Literals: []int64{1, 2}, Relation: Equal, Bound: 1}},
	}
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	//** Act
	solution, err := NewGophersatSolver().Solve(ctx, problem)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, Timeout, solution.Status)
}

func TestPBConstraintsKeepLiteralSigns(t *testing.T) {
	//** Arrange
	problem := &Problem{
		Variables:   3,
		Constraints: []Constraint{{Literals: []int64{1, 2, 3}, Relation: Equal, Bound: 1}},
		Fixed:       []int64{2},
	}

	//** Act
	constraints := pbConstraints(problem)

	//** Assert
	require.Len(t, constraints, 4)
	assert.Equal(t, gophersat.AtLeast([]int{3}, 0), constraints[0])
	assert.Equal(t, gophersat.PropClause(-2), constraints[1])
	assert.Equal(t, []int{-1, -2, -3}, constraints[2].Lits)
	assert.Equal(t, 2, constraints[2].AtLeast)
	assert.Equal(t, []int{1, 2, 3}, constraints[3].Lits)
	assert.Equal(t, 1, constraints[3].AtLeast)
	assert.Equal(t, []int64{1, 2, 3}, problem.Constraints[0].Literals)
}

func TestInfeasiblePlacementsAreNotSolved(t *testing.T) {
	// Every pigeon needs exactly one of n-1 holes that take one pigeon each
	for _, pigeons := range []int{3, 4, 6} {
		//** Arrange
		holes := pigeons - 1
		variable := func(pigeon, hole int) int64 { return int64(pigeon*holes + hole + 1) }
		problem := &Problem{Variables: uint64(pigeons * holes)}
		for pigeon := range pigeons {
			problem.Constraints = append(problem.Constraints, Constraint{
				Literals: lo.Map(lo.Range(holes), func(hole int, _ int) int64 { return variable(pigeon, hole) }),
				Relation: Equal,
				Bound:    1,
			})
		}
		for hole := range holes {
			problem.Constraints = append(problem.Constraints, Constraint{
				Literals: lo.Map(lo.Range(pigeons), func(pigeon int, _ int) int64 { return variable(pigeon, hole) }),
				Relation: AtMost,
				Bound:    1,
			})
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

		for _, solver := range []Solver{NewGiniSolver(), NewGophersatSolver()} {
			//** Act
			solution, err := solver.Solve(ctx, problem)

			//** Assert
			require.Nil(t, err)
			assert.Equal(t, Infeasible, solution.Status, "%d pigeons", pigeons)
		}
		cancel()
	}
}

func TestOutOfRangeLiteral(t *testing.T) {
	//** Arrange
	problem := &Problem{
		Variables:   2,
		Constraints: []Constraint{{Literals: []int64{1, 3}, Relation: AtMost, Bound: 1}},
	}

	for _, solver := range []Solver{NewGiniSolver(), NewGophersatSolver()} {
		//** Act
		_, err := solver.Solve(context.Background(), problem)

		//** Assert
		assert.NotNil(t, err)
	}
}

func smallExecution(t *testing.T, solver Solver) {
	testCases := []struct {
		name      string
		problem   Problem
		status    Status
		objective int
	}{
		{
			name: "exactly one with objective",
			problem: Problem{
				Variables:   3,
				Constraints: []Constraint{{Literals: []int64{1, 2, 3}, Relation: Equal, Bound: 1}},
				Objective:   []Term{{Literal: 1, Weight: 2}, {Literal: 2, Weight: 1}, {Literal: 3, Weight: 3}},
			},
			status:    Optimal,
			objective: 1,
		},
		{
			name: "fixed variables",
			problem: Problem{
				Variables:   3,
				Constraints: []Constraint{{Literals: []int64{1, 2, 3}, Relation: Equal, Bound: 1}},
				Fixed:       []int64{2},
				Objective:   []Term{{Literal: 1, Weight: 2}, {Literal: 2, Weight: 1}, {Literal: 3, Weight: 3}},
			},
			status:    Optimal,
			objective: 2,
		},
		{
			name: "everything fixed",
			problem: Problem{
				Variables:   2,
				Constraints: []Constraint{{Literals: []int64{1, 2}, Relation: Equal, Bound: 1}},
				Fixed:       []int64{1, 2},
			},
			status: Infeasible,
		},
		{
			name: "empty exactly one",
			problem: Problem{
				Variables:   1,
				Constraints: []Constraint{{Literals: []int64{}, Relation: Equal, Bound: 1}},
			},
			status: Infeasible,
		},
		{
			name: "pigeonhole",
			problem: Problem{
				Variables: 6, // Three pigeons, two holes: variable 2*pigeon + hole + 1
				Constraints: []Constraint{
					{Literals: []int64{1, 2}, Relation: Equal, Bound: 1},
					{Literals: []int64{3, 4}, Relation: Equal, Bound: 1},
					{Literals: []int64{5, 6}, Relation: Equal, Bound: 1},
					{Literals: []int64{1, 3, 5}, Relation: AtMost, Bound: 1},
					{Literals: []int64{2, 4, 6}, Relation: AtMost, Bound: 1},
				},
			},
			status: Infeasible,
		},
		{
			name: "large exactly two",
			problem: Problem{
				Variables:   12,
				Constraints: []Constraint{{Literals: lo.Map(lo.Range(12), func(i int, _ int) int64 { return int64(i + 1) }), Relation: Equal, Bound: 2}},
				Objective:   lo.Map(lo.Range(12), func(i int, _ int) Term { return Term{Literal: int64(i + 1), Weight: 1 + i%3} }),
			},
			status:    Optimal,
			objective: 2,
		},
		{
			name:      "no constraints",
			problem:   Problem{Variables: 2, Objective: []Term{{Literal: 1, Weight: 1}}},
			status:    Optimal,
			objective: 0,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			//** Arrange
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			//** Act
			solution, err := solver.Solve(ctx, &testCase.problem)

			//** Assert
			require.Nil(t, err)
			assert.Equal(t, testCase.status, solution.Status)
			if testCase.status.Solved() {
				assert.True(t, testCase.problem.Satisfied(solution.Values))
				assert.Equal(t, testCase.objective, solution.Objective)
				assert.Equal(t, testCase.objective, testCase.problem.Evaluate(solution.Values))
			}
		})
	}
}

func randomExecution(t *testing.T, solver Solver) {
	random := rand.New(rand.NewPCG(7, 11))

	for range randomProblems {
		//** Arrange
		problem := randomProblem(random, 8)
		optimum, feasible := bruteForce(problem)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

		//** Act
		solution, err := solver.Solve(ctx, problem)
		cancel()

		//** Assert
		require.Nil(t, err)
		if !feasible {
			assert.Equal(t, Infeasible, solution.Status)
			continue
		}
		assert.Equal(t, Optimal, solution.Status)
		assert.True(t, problem.Satisfied(solution.Values))
		assert.Equal(t, optimum, solution.Objective)
	}
}

func randomProblem(random *rand.Rand, variables int) *Problem {
	problem := Problem{Variables: uint64(variables)}

	for range 1 + random.IntN(4) {
		size := 1 + random.IntN(variables)
		literals := lo.Map(random.Perm(variables)[:size], func(variable int, _ int) int64 {
			if random.IntN(4) == 0 {
				return -int64(variable + 1)
			}
			return int64(variable + 1)
		})
		relation := AtMost
		if random.IntN(2) == 0 {
			relation = Equal
		}
		problem.Constraints = append(problem.Constraints, Constraint{Literals: literals, Relation: relation, Bound: random.IntN(size + 1)})
	}

	if random.IntN(3) == 0 {
		problem.Fixed = append(problem.Fixed, int64(1+random.IntN(variables)))
	}
	for variable := range variables {
		if random.IntN(2) == 0 {
			problem.Objective = append(problem.Objective, Term{Literal: int64(variable + 1), Weight: random.IntN(3)})
		}
	}
	return &problem
}

// bruteForce returns the optimum of a small problem by enumerating every assignment
func bruteForce(problem *Problem) (optimum int, feasible bool) {
	values := make([]bool, problem.Variables)
	for mask := range 1 << problem.Variables {
		for i := range values {
			values[i] = mask&(1<<i) != 0
		}
		if !problem.Satisfied(values) {
			continue
		}
		if cost := problem.Evaluate(values); !feasible || cost < optimum {
			optimum, feasible = cost, true
		}
	}
	return optimum, feasible
}

func requireExecutable(t *testing.T, name string) {
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%v is not installed", name)
	}
}

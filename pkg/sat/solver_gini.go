package sat

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

type giniSolver struct{}

// NewGiniSolver returns the in-process engine. Cardinalities are encoded with sorting networks and the objective is
// minimized by assuming ever smaller bounds on the same solver instance
func NewGiniSolver() Solver {
	return &giniSolver{}
}

func (solver *giniSolver) Solve(ctx context.Context, problem *Problem) (Solution, error) {
	if err := problem.validate(); err != nil {
		return Solution{}, err
	} else if problem.TriviallyInfeasible() {
		return Solution{Status: Infeasible}, nil
	}

	instance := newGiniInstance(problem)
	return minimize(ctx, problem, instance.solve)
}

type giniInstance struct {
	g         *gini.Gini
	literals  []z.Lit // Problem variable - 1 -> circuit literal
	objective *logic.CardSort
	terms     int
}

func newGiniInstance(problem *Problem) *giniInstance {
	c := logic.NewC()
	literals := make([]z.Lit, problem.Variables)
	for i := range literals {
		literals[i] = c.Lit()
	}
	lit := func(literal int64) z.Lit {
		if literal < 0 {
			return literals[-literal-1].Not()
		}
		return literals[literal-1]
	}
	lits := func(values []int64) []z.Lit {
		result := make([]z.Lit, len(values))
		for i, value := range values {
			result[i] = lit(value)
		}
		return result
	}

	clauses := make([][]z.Lit, 0, len(problem.Fixed)+len(problem.Constraints))
	for _, variable := range problem.Fixed {
		clauses = append(clauses, []z.Lit{lit(variable).Not()})
	}

	// Small sets are encoded with plain clauses, large ones with sorting networks whose outputs become units
	for _, constraint := range problem.Constraints {
		ms, k := lits(constraint.Literals), constraint.Bound
		n := len(ms)

		if k < n {
			if k == 0 {
				for _, m := range ms {
					clauses = append(clauses, []z.Lit{m.Not()})
				}
			} else if k == 1 && n <= pairwiseThreshold {
				for i := range n - 1 {
					for j := i + 1; j < n; j++ {
						clauses = append(clauses, []z.Lit{ms[i].Not(), ms[j].Not()})
					}
				}
			} else {
				clauses = append(clauses, []z.Lit{c.CardSort(ms).Leq(k)})
			}
		}

		if constraint.Relation == Equal && k > 0 {
			if k == 1 {
				clauses = append(clauses, ms)
			} else {
				clauses = append(clauses, []z.Lit{c.CardSort(ms).Geq(k)})
			}
		}
	}

	instance := giniInstance{g: gini.New(), literals: literals}
	if expanded := objectiveLiterals(problem); len(expanded) > 0 {
		instance.objective = c.CardSort(lits(expanded))
		instance.terms = len(expanded)
	}

	c.ToCnf(instance.g)
	for _, clause := range clauses {
		for _, m := range clause {
			instance.g.Add(m)
		}
		instance.g.Add(0)
	}

	return &instance
}

func (instance *giniInstance) solve(ctx context.Context, bound int) (int, []bool, error) {
	if bound >= 0 && instance.objective != nil && bound < instance.terms {
		instance.g.Assume(instance.objective.Leq(bound))
	}

	var result int
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return unknown, nil, nil
		}
		result = instance.g.GoSolve().Try(remaining)
	} else {
		result = instance.g.Solve()
	}

	if result != satisfiable {
		return result, nil, nil
	}

	values := make([]bool, len(instance.literals))
	maxVar := instance.g.MaxVar()
	for i, m := range instance.literals {
		// Variables that appear in no clause are unconstrained and reported false
		values[i] = m.Var() <= maxVar && instance.g.Value(m)
	}
	return result, values, nil
}

package sat

import (
	"context"
	"slices"

	gophersat "github.com/crillab/gophersat/solver"
)

type gophersatSolver struct{}

// NewGophersatSolver returns the in-process pseudo-boolean engine. The objective is handed to gophersat as its cost
// function and every improving model is streamed back, so the best one survives a deadline
func NewGophersatSolver() Solver {
	return &gophersatSolver{}
}

func (solver *gophersatSolver) Solve(ctx context.Context, problem *Problem) (Solution, error) {
	if err := problem.validate(); err != nil {
		return Solution{}, err
	} else if problem.TriviallyInfeasible() {
		return Solution{Status: Infeasible}, nil
	} else if ctx.Err() != nil {
		return Solution{Status: Timeout}, nil
	} else if problem.Variables == 0 {
		return Solution{Status: Optimal, Values: []bool{}}, nil
	}

	pb := gophersat.ParsePBConstrs(pbConstraints(problem))
	if lits, weights := costFunction(problem); len(lits) > 0 {
		pb.SetCostFunc(lits, weights)
	}
	return optimal(ctx, gophersat.New(pb), problem)
}

func pbConstraints(problem *Problem) []gophersat.PBConstr {
	constraints := make([]gophersat.PBConstr, 0, 1+len(problem.Fixed)+2*len(problem.Constraints))

	// A trivially true constraint over the last variable makes the model cover the whole variable space
	constraints = append(constraints, gophersat.AtLeast([]int{int(problem.Variables)}, 0))

	for _, variable := range problem.Fixed {
		constraints = append(constraints, gophersat.PropClause(-int(variable)))
	}
	for _, constraint := range problem.Constraints {
		if len(constraint.Literals) == 0 {
			continue
		}
		lits := make([]int, len(constraint.Literals))
		for i, literal := range constraint.Literals {
			lits[i] = int(literal)
		}

		// gophersat owns (and AtMost negates) the slice it receives
		if constraint.Bound < len(lits) {
			constraints = append(constraints, gophersat.AtMost(slices.Clone(lits), constraint.Bound))
		}
		if constraint.Relation == Equal && constraint.Bound > 0 {
			constraints = append(constraints, gophersat.AtLeast(lits, constraint.Bound))
		}
	}
	return constraints
}

func costFunction(problem *Problem) ([]gophersat.Lit, []int) {
	lits, weights := make([]gophersat.Lit, 0, len(problem.Objective)), make([]int, 0, len(problem.Objective))
	for _, term := range problem.Objective {
		if term.Weight == 0 {
			continue
		}
		lits = append(lits, gophersat.IntToLit(int32(term.Literal)))
		weights = append(weights, term.Weight)
	}
	return lits, weights
}

// optimal collects the improving models of gophersat's own descent. The stop request is advisory for gophersat, so on
// expiry the search may still run and its remaining models are drained in the background
func optimal(ctx context.Context, s *gophersat.Solver, problem *Problem) (Solution, error) {
	results := make(chan gophersat.Result)
	stop := make(chan struct{})
	go s.Optimal(results, stop)

	var best []bool
	for {
		select {
		case <-ctx.Done():
			close(stop)
			go func() {
				for range results {
				}
			}()
			if best == nil {
				return Solution{Status: Timeout}, nil
			}
			return Solution{Status: Feasible, Values: best, Objective: problem.Evaluate(best)}, nil
		case result, ok := <-results:
			if !ok {
				if best == nil {
					return Solution{Status: Infeasible}, nil
				}
				return Solution{Status: Optimal, Values: best, Objective: problem.Evaluate(best)}, nil
			}
			if result.Status == gophersat.Sat {
				best = make([]bool, problem.Variables)
				copy(best, result.Model)
			}
		}
	}
}

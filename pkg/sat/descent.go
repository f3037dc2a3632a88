package sat

import "context"

// Outcomes of a single decision call; they mirror gini's Solve/Try results
const (
	satisfiable   = 1
	unknown       = 0
	unsatisfiable = -1
)

// boundedSolve runs one decision call over the problem with the extra requirement "objective <= bound".
// A negative bound means no objective requirement
type boundedSolve func(ctx context.Context, bound int) (result int, values []bool, err error)

// minimize finds an optimal assignment by solving with a strictly decreasing objective bound until the bound
// becomes unsatisfiable. When the budget runs out the last assignment found is reported as Feasible
func minimize(ctx context.Context, problem *Problem, solve boundedSolve) (Solution, error) {
	result, values, err := solve(ctx, -1)
	if err != nil {
		return Solution{}, err
	}
	switch result {
	case unsatisfiable:
		return Solution{Status: Infeasible}, nil
	case unknown:
		return Solution{Status: Timeout}, nil
	}

	best := Solution{Status: Feasible, Values: values, Objective: problem.Evaluate(values)}
	for best.Objective > 0 {
		if ctx.Err() != nil {
			return best, nil
		}

		result, values, err := solve(ctx, best.Objective-1)
		if err != nil {
			return Solution{}, err
		}
		switch result {
		case unsatisfiable:
			best.Status = Optimal
			return best, nil
		case unknown:
			return best, nil
		}
		best.Values, best.Objective = values, problem.Evaluate(values)
	}

	// Weights are non-negative, so a zero objective cannot be improved
	best.Status = Optimal
	return best, nil
}

// objectiveLiterals expands weighted terms into a multiset of literals, so that a cardinality bound over the
// result is a bound over the weighted sum
func objectiveLiterals(problem *Problem) []int64 {
	literals := make([]int64, 0, len(problem.Objective))
	for _, term := range problem.Objective {
		for range term.Weight {
			literals = append(literals, term.Literal)
		}
	}
	return literals
}

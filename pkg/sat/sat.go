package sat

import (
	"context"
	"fmt"
)

// Relation is the comparison applied between the sum of a constraint's literals and its bound
type Relation int

const (
	Equal Relation = iota
	AtMost
)

func (relation Relation) String() string {
	switch relation {
	case Equal:
		return "=="
	case AtMost:
		return "<="
	}
	return fmt.Sprintf("Relation(%d)", int(relation))
}

// Constraint states that the number of true literals is equal to (or at most) Bound.
// Literals follow the DIMACS convention: variables are 1-based and a negative value is a negation
type Constraint struct {
	Literals []int64
	Relation Relation
	Bound    int
}

// Term is a weighted objective literal; the objective is the sum of the weights of the true literals
type Term struct {
	Literal int64
	Weight  int
}

// Problem is the engine-neutral input of a solving engine
type Problem struct {
	Variables   uint64
	Constraints []Constraint
	Fixed       []int64 // Variables permanently fixed to false
	Objective   []Term  // Minimized; empty for pure decision problems
	Seed        *int    // Random seed for engines that take one; nil keeps the engine's default
}

// Status is the outcome reported by a solving engine
type Status int

const (
	Optimal Status = iota
	Feasible
	Infeasible
	Timeout // Budget exhausted without any solution
)

func (status Status) String() string {
	switch status {
	case Optimal:
		return "OPTIMAL"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	case Timeout:
		return "TIMEOUT"
	}
	return fmt.Sprintf("Status(%d)", int(status))
}

// Solved reports whether the status carries a variable assignment
func (status Status) Solved() bool {
	return status == Optimal || status == Feasible
}

// Solution is the output of a solving engine. Values[i] is the value of variable i+1 and is only meaningful when Status.Solved()
type Solution struct {
	Status    Status
	Values    []bool
	Objective int
}

// Value returns the value of a 1-based variable
func (solution Solution) Value(variable int64) bool {
	if variable <= 0 || variable > int64(len(solution.Values)) {
		return false
	}
	return solution.Values[variable-1]
}

// Solver is the contract of a solving engine. The time budget is the deadline of ctx; an engine must return
// (with Timeout or Feasible) once the deadline passes. Infeasibility is a status, never an error
type Solver interface {
	Solve(ctx context.Context, problem *Problem) (Solution, error)
}

// Evaluate computes the objective value of an assignment
func (problem *Problem) Evaluate(values []bool) int {
	cost := 0
	for _, term := range problem.Objective {
		if literalValue(values, term.Literal) {
			cost += term.Weight
		}
	}
	return cost
}

// Satisfied reports whether an assignment satisfies every constraint and fixing of the problem
func (problem *Problem) Satisfied(values []bool) bool {
	for _, variable := range problem.Fixed {
		if literalValue(values, variable) {
			return false
		}
	}
	for _, constraint := range problem.Constraints {
		count := 0
		for _, literal := range constraint.Literals {
			if literalValue(values, literal) {
				count++
			}
		}
		if constraint.Relation == Equal && count != constraint.Bound ||
			constraint.Relation == AtMost && count > constraint.Bound {
			return false
		}
	}
	return true
}

// TriviallyInfeasible detects constraints that no assignment can satisfy (e.g. an exact-one over an empty set)
func (problem *Problem) TriviallyInfeasible() bool {
	for _, constraint := range problem.Constraints {
		if constraint.Bound < 0 ||
			constraint.Relation == Equal && constraint.Bound > len(constraint.Literals) {
			return true
		}
	}
	return false
}

func (problem *Problem) validate() error {
	check := func(literal int64) error {
		if literal == 0 || uint64(abs(literal)) > problem.Variables {
			return fmt.Errorf("literal %d out of range [1, %d]", literal, problem.Variables)
		}
		return nil
	}
	for _, constraint := range problem.Constraints {
		for _, literal := range constraint.Literals {
			if err := check(literal); err != nil {
				return err
			}
		}
	}
	for _, variable := range problem.Fixed {
		if err := check(variable); err != nil {
			return err
		}
	}
	for _, term := range problem.Objective {
		if err := check(term.Literal); err != nil {
			return err
		} else if term.Weight < 0 {
			return fmt.Errorf("negative objective weight %d", term.Weight)
		}
	}
	return nil
}

func literalValue(values []bool, literal int64) bool {
	variable := abs(literal)
	value := variable > 0 && variable <= int64(len(values)) && values[variable-1]
	if literal < 0 {
		return !value
	}
	return value
}

func abs(value int64) int64 {
	if value < 0 {
		return -value
	}
	return value
}

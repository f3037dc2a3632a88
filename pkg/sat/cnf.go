package sat

import (
	"fmt"
	"strings"
)

// Cardinality sets up to this size are encoded pairwise; larger ones use a sequential counter
const pairwiseThreshold = 8

type SAT struct {
	Variables uint64
	Clauses   [][]int64
	Seed      *int
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// ToCNF encodes the problem into clauses. A non-negative bound adds "objective <= bound".
// Auxiliary variables are numbered after the problem's own variables
func (problem *Problem) ToCNF(bound int) SAT {
	encoder := cnfEncoder{sat: SAT{Variables: problem.Variables, Clauses: [][]int64{}, Seed: problem.Seed}}

	for _, variable := range problem.Fixed {
		encoder.add(-variable)
	}

	for _, constraint := range problem.Constraints {
		switch constraint.Relation {
		case Equal:
			encoder.exactly(constraint.Literals, constraint.Bound)
		case AtMost:
			encoder.atMost(constraint.Literals, constraint.Bound)
		}
	}

	if bound >= 0 {
		encoder.atMost(objectiveLiterals(problem), bound)
	}

	return encoder.sat
}

type cnfEncoder struct {
	sat SAT
}

func (encoder *cnfEncoder) add(literals ...int64) {
	encoder.sat.Clauses = append(encoder.sat.Clauses, literals)
}

func (encoder *cnfEncoder) newVariable() int64 {
	encoder.sat.Variables++
	return int64(encoder.sat.Variables)
}

func (encoder *cnfEncoder) exactly(literals []int64, k int) {
	if k > len(literals) || k < 0 {
		encoder.add() // Empty clause: unsatisfiable
		return
	}
	encoder.atMost(literals, k)

	// At least k true is at most n-k false
	negated := make([]int64, len(literals))
	for i, literal := range literals {
		negated[i] = -literal
	}
	if k == 1 {
		encoder.add(literals...)
	} else {
		encoder.atMost(negated, len(literals)-k)
	}
}

// atMost encodes "at most k literals are true" (Sinz's sequential counter for the general case)
func (encoder *cnfEncoder) atMost(literals []int64, k int) {
	n := len(literals)
	if k < 0 {
		encoder.add()
		return
	} else if k >= n {
		return
	} else if k == 0 {
		for _, literal := range literals {
			encoder.add(-literal)
		}
		return
	} else if k == 1 && n <= pairwiseThreshold {
		for i := range n - 1 {
			for j := i + 1; j < n; j++ {
				encoder.add(-literals[i], -literals[j])
			}
		}
		return
	}

	// counter[i][j] holds when at least j+1 of the first i+1 literals are true
	counter := make([][]int64, n-1)
	for i := range counter {
		counter[i] = make([]int64, k)
		for j := range k {
			counter[i][j] = encoder.newVariable()
		}
	}

	encoder.add(-literals[0], counter[0][0])
	for j := 1; j < k; j++ {
		encoder.add(-counter[0][j])
	}
	for i := 1; i < n-1; i++ {
		encoder.add(-literals[i], counter[i][0])
		encoder.add(-counter[i-1][0], counter[i][0])
		for j := 1; j < k; j++ {
			encoder.add(-literals[i], -counter[i-1][j-1], counter[i][j])
			encoder.add(-counter[i-1][j], counter[i][j])
		}
		encoder.add(-literals[i], -counter[i-1][k-1])
	}
	encoder.add(-literals[n-1], -counter[n-2][k-1])
}

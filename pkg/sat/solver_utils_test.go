package sat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSolution(t *testing.T) {
	//** Arrange
	output := "c comment\ns SATISFIABLE\nv 1 -2 3\nv -4 5 0\n"

	//** Act
	literals, err := parseSolution(output)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, []int64{1, -2, 3, -4, 5}, literals)
}

func TestParseSolutionInvalidLiteral(t *testing.T) {
	//** Act
	_, err := parseSolution("s SATISFIABLE\nv 1 x 0\n")

	//** Assert
	assert.NotNil(t, err)
}

func TestSeedArgs(t *testing.T) {
	//** Arrange
	seed := 42

	//** Act
	withSeed := seedArgs(&seed, "--seed=%d")
	withoutSeed := seedArgs(nil, "--seed=%d")

	//** Assert
	assert.Equal(t, []string{"--seed=42"}, withSeed)
	assert.Empty(t, withoutSeed)
}

func TestParseMinisatOutput(t *testing.T) {
	//** Act
	literals, err := parseMinisatOutput("SAT\n-1 2 -3 0\n")
	_, errUnsat := parseMinisatOutput("UNSAT\n")

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, []int64{-1, 2, -3}, literals)
	assert.NotNil(t, errUnsat)
}

func TestValuesFromLiterals(t *testing.T) {
	//** Act
	values := valuesFromLiterals([]int64{1, -2, 3, 7}, 3)

	//** Assert
	assert.Equal(t, []bool{true, false, true}, values)
}

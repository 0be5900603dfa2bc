package programs

import (
	"errors"
	"fmt"
)

var ErrInvalidEvaluator = errors.New("invalid evaluator")

// Result is the iteration at which an orbit escaped, or Bounded.
type Result int32

// Bounded marks a point whose orbit never left the escape radius within the
// iteration cap.
const Bounded Result = -1

func (r Result) Escaped() bool {
	return r != Bounded
}

// Evaluator runs one program over single points of the complex plane.
type Evaluator struct {
	Program
	Iterations   int
	EscapeRadius float64
}

func NewEvaluator(p Program, iterations int, escapeRadius float64) (Evaluator, error) {
	switch {
	case p.Rule == nil:
		return Evaluator{}, fmt.Errorf("%w: program %q has no rule", ErrInvalidEvaluator, p.Name)
	case iterations <= 0:
		return Evaluator{}, fmt.Errorf("%w: iteration cap %d", ErrInvalidEvaluator, iterations)
	case escapeRadius <= 0:
		return Evaluator{}, fmt.Errorf("%w: escape radius %v", ErrInvalidEvaluator, escapeRadius)
	}

	return Evaluator{
		Program:      p,
		Iterations:   iterations,
		EscapeRadius: escapeRadius,
	}, nil
}

// Evaluate iterates the orbit of c = cx + cy·i.
// The escape test compares the squared modulus against the squared radius,
// and a point landing exactly on the radius counts as escaped.
func (e Evaluator) Evaluate(cx, cy float64) Result {
	c := complex(cx, cy)
	limit := e.EscapeRadius * e.EscapeRadius

	var z complex128
	if e.Start != nil {
		z = e.Start(c)
	}

	iterations := 0
	for iterations < e.Iterations && real(z)*real(z)+imag(z)*imag(z) < limit {
		z = e.Rule(z, c)
		iterations++
	}

	if real(z)*real(z)+imag(z)*imag(z) < limit {
		return Bounded
	}
	return Result(iterations)
}

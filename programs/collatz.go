package programs

import (
	"math"
	"math/cmplx"
)

// collatz is the Collatz map extended to the complex plane. It has no parameter, so the
// orbit starts at the point itself.
var collatz = Program{
	Name: "collatz",
	Rule: func(z, _ complex128) complex128 {
		return ((z*7 + 2) - cmplx.Cos(z*math.Pi)*(z*5+2)) * 0.25
	},
	Start: func(c complex128) complex128 {
		return c
	},
}

package programs

import "math/cmplx"

var expcosh = Program{
	Name: "expcosh",
	Rule: func(z, c complex128) complex128 {
		return cmplx.Exp(cmplx.Cosh(z)) + c
	},
}

package programs

import "math"

var burningship = Program{
	Name: "burningship",
	Rule: func(z, c complex128) complex128 {
		z = complex(math.Abs(real(z)), math.Abs(imag(z)))
		return z*z + c
	},
}

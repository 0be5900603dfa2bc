package programs

var tricorn = Program{
	Name: "tricorn",
	Rule: func(z, c complex128) complex128 {
		z = complex(real(z), -imag(z))
		return z*z + c
	},
}

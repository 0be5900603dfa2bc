package programs

var multibrot3 = Program{
	Name: "multibrot3",
	Rule: func(z, c complex128) complex128 {
		return z*z*z + c
	},
}

package programs

var multibrot6 = Program{
	Name: "multibrot6",
	Rule: func(z, c complex128) complex128 {
		z3 := z * z * z
		return z3*z3 + c
	},
}

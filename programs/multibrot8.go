package programs

var multibrot8 = Program{
	Name: "multibrot8",
	Rule: func(z, c complex128) complex128 {
		z4 := z * z * z * z
		return z4*z4 + c
	},
}

package programs

var multibrot4And8 = Program{
	Name: "multibrot4_8",
	Rule: func(z, c complex128) complex128 {
		z4 := z * z * z * z
		return z4 + z4*z4 + c
	},
}

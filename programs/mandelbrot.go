package programs

var mandelbrot = Program{
	Name: "mandelbrot",
	Rule: func(z, c complex128) complex128 {
		return z*z + c
	},
}

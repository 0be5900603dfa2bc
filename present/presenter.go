// Package present draws rendered frames with OpenGL. It is shared by the GTK
// and GLFW front-ends; callers must make their GL context current first.
package present

import (
	_ "embed"
	"fmt"
	"image"
	"log"
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/fractalexplorer/viewport"
)

//go:embed shaders/frame.vert
var vertexShader string

//go:embed shaders/frame.frag
var fragmentShader string

// One triangle large enough to cover the whole clip square.
var verticies = []float32{
	-3, -2,
	0, 3,
	3, -2,
}

type Presenter struct {
	vao          uint32
	vbo          uint32
	program      uint32
	texture      uint32
	vertexAttrib uint32

	cameraLocation int32
	frameLocation  int32

	camera      mgl32.Mat4
	width       int
	height      int
	textureSize image.Point
}

// New initialises GL for the current context and builds the frame program.
func New(debug bool) (*Presenter, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl.Init: %w", err)
	}
	log.Println("OpenGL version", gl.GoStr(gl.GetString(gl.VERSION)))

	if debug {
		gl.DebugMessageCallback(glDebugMessage, nil)
		gl.Enable(gl.DEBUG_OUTPUT)
	}

	p := &Presenter{camera: mgl32.Ident4()}

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)

	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verticies)*4, gl.Ptr(verticies), gl.STATIC_DRAW)

	if err := p.loadProgram(); err != nil {
		return nil, err
	}

	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	return p, nil
}

func (p *Presenter) loadProgram() error {
	vertex, err := compileShader(vertexShader+"\x00", gl.VERTEX_SHADER)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(vertex)

	fragment, err := compileShader(fragmentShader+"\x00", gl.FRAGMENT_SHADER)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(fragment)

	p.program = gl.CreateProgram()
	gl.AttachShader(p.program, vertex)
	gl.AttachShader(p.program, fragment)
	gl.BindFragDataLocation(p.program, 0, gl.Str("outputColor\x00"))
	gl.LinkProgram(p.program)

	var status int32
	gl.GetProgramiv(p.program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetProgramiv(p.program, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetProgramInfoLog(p.program, l, nil, gl.Str(log))
		return fmt.Errorf("failed to link program: %v", log)
	}

	gl.UseProgram(p.program)
	p.cameraLocation = gl.GetUniformLocation(p.program, gl.Str("camera\x00"))
	p.frameLocation = gl.GetUniformLocation(p.program, gl.Str("frame\x00"))

	p.vertexAttrib = uint32(gl.GetAttribLocation(p.program, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(p.vertexAttrib)
	gl.VertexAttribPointerWithOffset(p.vertexAttrib, 2, gl.FLOAT, false, 2*4, 0)
	return nil
}

// Resize sets the drawable size in pixels and letterboxes the square frame
// inside it.
func (p *Presenter) Resize(width, height int) {
	p.width, p.height = width, height

	sx, sy := viewport.Letterbox{WindowWidth: width, WindowHeight: height}.Scale()
	p.camera = mgl32.Scale3D(float32(sx), float32(sy), 1)

	gl.Viewport(0, 0, int32(width), int32(height))
}

// Upload copies img into the frame texture.
func (p *Presenter) Upload(img *image.RGBA) {
	size := img.Bounds().Size()

	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	defer gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	if size != p.textureSize {
		gl.TexImage2D(
			gl.TEXTURE_2D, 0, gl.RGBA8,
			int32(size.X), int32(size.Y), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix),
		)
		p.textureSize = size
		return
	}

	gl.TexSubImage2D(
		gl.TEXTURE_2D, 0, 0, 0,
		int32(size.X), int32(size.Y),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix),
	)
}

func (p *Presenter) Draw() {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(p.program)
	gl.UniformMatrix4fv(p.cameraLocation, 1, false, &p.camera[0])

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.Uniform1i(p.frameLocation, 0)

	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

func (p *Presenter) Delete() {
	gl.DeleteTextures(1, &p.texture)
	gl.DeleteBuffers(1, &p.vbo)
	gl.DeleteVertexArrays(1, &p.vao)
	gl.DeleteProgram(p.program)
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	defer runtime.KeepAlive(source)
	cstring, free := gl.Strs(source)
	defer free()

	shader := gl.CreateShader(shaderType)
	gl.ShaderSource(shader, 1, cstring, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetShaderInfoLog(shader, l, nil, gl.Str(log))
		return 0, fmt.Errorf("shader\n\"\n%v\n\"\nfailed to compile: %v", source, log)
	}

	return shader, nil
}

func glDebugMessage(
	source,
	gltype,
	id,
	severity uint32,
	length int32,
	message string,
	user unsafe.Pointer,
) {
	severityStr := "unknown"
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		severityStr = "high"
	case gl.DEBUG_SEVERITY_MEDIUM:
		severityStr = "medium"
	case gl.DEBUG_SEVERITY_LOW:
		severityStr = "low"
	case gl.DEBUG_SEVERITY_NOTIFICATION:
		return
	}

	typeStr := "other"
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		typeStr = "error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		typeStr = "deprecatedBehavior"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		typeStr = "undefinedBehavior"
	case gl.DEBUG_TYPE_PERFORMANCE:
		typeStr = "performance"
	case gl.DEBUG_TYPE_PORTABILITY:
		typeStr = "portability"
	}

	log.Printf("gl(%v): %v; %v", severityStr, typeStr, message)
}

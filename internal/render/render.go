// Package render implements the compositor's GLES2 draw path: a single
// textured-quad shader reused to composite every mapped window's
// surface texture onto each output's framebuffer (spec §4.6
// "Renderer"). It implements compositor.TextureUploader and
// compositor.FrameScheduler so internal/compositor never imports cgo.
package render

// #cgo pkg-config: glesv2
// #include <stdlib.h>
// #include <GLES2/gl2.h>
import "C"

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/tonybanters/owl/internal/compositor"
)

const vertexShaderSrc = `
attribute vec2 aPos;
attribute vec2 aTexCoord;
uniform vec2 uScreenSize;
uniform vec2 uTranslate;
uniform vec2 uScale;
varying vec2 vTexCoord;
void main() {
	vec2 pos = aPos * uScale + uTranslate;
	vec2 ndc = (pos / uScreenSize) * 2.0 - 1.0;
	gl_Position = vec4(ndc.x, -ndc.y, 0.0, 1.0);
	vTexCoord = aTexCoord;
}
` + "\x00"

const fragmentShaderSrc = `
precision mediump float;
varying vec2 vTexCoord;
uniform sampler2D uTex;
void main() {
	gl_FragColor = texture2D(uTex, vTexCoord);
}
` + "\x00"

// quadVerts is a unit quad (0,0)-(1,1) in both position and texture
// space; per-window placement happens via the uTranslate/uScale
// uniforms rather than re-uploading geometry (spec §4.6 "composite
// shader").
var quadVerts = []float32{
	0, 0, 0, 0,
	1, 0, 1, 0,
	0, 1, 0, 1,
	1, 1, 1, 1,
}

// Stats counts frames composited and page flips issued. It is kept on
// Pipeline only; the owl package does not expose it to the embedding host.
type Stats struct {
	FramesComposited uint64
	PageFlipsIssued  uint64
}

// Pipeline owns the shader program, VBO, and per-surface texture cache
// (spec §4.6 "Global mutable state... shader program id, VBO id",
// re-architected per spec §9 as fields of this struct instead of file
// statics).
type Pipeline struct {
	program C.GLuint
	vbo     C.GLuint
	aPos    C.GLint
	aTex    C.GLint
	uScreen C.GLint
	uTrans  C.GLint
	uScale  C.GLint
	uTex    C.GLint

	textures map[*compositor.Surface]C.GLuint
	nextTex  uint32

	log   *zap.Logger
	Stats Stats
}

func NewPipeline(log *zap.Logger) (*Pipeline, error) {
	p := &Pipeline{textures: make(map[*compositor.Surface]C.GLuint), log: log}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) compile() error {
	vs, err := compileShader(C.GL_VERTEX_SHADER, vertexShaderSrc)
	if err != nil {
		return fmt.Errorf("render: vertex shader: %w", err)
	}
	fs, err := compileShader(C.GL_FRAGMENT_SHADER, fragmentShaderSrc)
	if err != nil {
		return fmt.Errorf("render: fragment shader: %w", err)
	}

	prog := C.glCreateProgram()
	C.glAttachShader(prog, vs)
	C.glAttachShader(prog, fs)
	C.glLinkProgram(prog)
	var status C.GLint
	C.glGetProgramiv(prog, C.GL_LINK_STATUS, &status)
	if status == 0 {
		return fmt.Errorf("render: program link failed")
	}
	C.glDeleteShader(vs)
	C.glDeleteShader(fs)
	p.program = prog

	var vbo C.GLuint
	C.glGenBuffers(1, &vbo)
	C.glBindBuffer(C.GL_ARRAY_BUFFER, vbo)
	C.glBufferData(C.GL_ARRAY_BUFFER, C.GLsizeiptr(len(quadVerts)*4), unsafe.Pointer(&quadVerts[0]), C.GL_STATIC_DRAW)
	p.vbo = vbo

	p.aPos = C.glGetAttribLocation(prog, cstr("aPos"))
	p.aTex = C.glGetAttribLocation(prog, cstr("aTexCoord"))
	p.uScreen = C.glGetUniformLocation(prog, cstr("uScreenSize"))
	p.uTrans = C.glGetUniformLocation(prog, cstr("uTranslate"))
	p.uScale = C.glGetUniformLocation(prog, cstr("uScale"))
	p.uTex = C.glGetUniformLocation(prog, cstr("uTex"))
	return nil
}

func compileShader(kind C.GLenum, src string) (C.GLuint, error) {
	sh := C.glCreateShader(kind)
	csrc := C.CString(src)
	defer C.free(unsafe.Pointer(csrc))
	C.glShaderSource(sh, 1, &csrc, nil)
	C.glCompileShader(sh)
	var status C.GLint
	C.glGetShaderiv(sh, C.GL_COMPILE_STATUS, &status)
	if status == 0 {
		return 0, fmt.Errorf("shader compile failed")
	}
	return sh, nil
}

func cstr(s string) *C.GLchar {
	return (*C.GLchar)(unsafe.Pointer(C.CString(s)))
}

// UploadTexture implements compositor.TextureUploader: it uploads the
// freshly committed pixels for surf, creating the GL texture on first
// use and reusing it afterward (spec §4.3 step 4).
func (p *Pipeline) UploadTexture(surf *compositor.Surface, pixels []byte, width, height, stride int32, format uint32) uint32 {
	tex, ok := p.textures[surf]
	if !ok {
		C.glGenTextures(1, &tex)
		p.textures[surf] = tex
	}
	C.glBindTexture(C.GL_TEXTURE_2D, tex)
	C.glTexParameteri(C.GL_TEXTURE_2D, C.GL_TEXTURE_MIN_FILTER, C.GL_LINEAR)
	C.glTexParameteri(C.GL_TEXTURE_2D, C.GL_TEXTURE_MAG_FILTER, C.GL_LINEAR)
	C.glTexParameteri(C.GL_TEXTURE_2D, C.GL_TEXTURE_WRAP_S, C.GL_CLAMP_TO_EDGE)
	C.glTexParameteri(C.GL_TEXTURE_2D, C.GL_TEXTURE_WRAP_T, C.GL_CLAMP_TO_EDGE)

	glFormat := C.GLenum(C.GL_RGBA)
	if len(pixels) > 0 {
		C.glTexImage2D(C.GL_TEXTURE_2D, 0, C.GL_RGBA, C.GLsizei(width), C.GLsizei(height), 0,
			glFormat, C.GL_UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	}
	return uint32(tex)
}

// ForgetSurface drops a surface's cached texture, called when the
// surface is destroyed so the cache never grows unbounded.
func (p *Pipeline) ForgetSurface(surf *compositor.Surface) {
	if tex, ok := p.textures[surf]; ok {
		C.glDeleteTextures(1, &tex)
		delete(p.textures, surf)
	}
}

// Composite draws every mapped, content-bearing window bottom-to-top
// onto the currently bound framebuffer (spec §4.5 step 4, §4.6).
func (p *Pipeline) Composite(screenWidth, screenHeight int32, windows []*compositor.Window) {
	C.glViewport(0, 0, C.GLsizei(screenWidth), C.GLsizei(screenHeight))
	C.glClearColor(0.2, 0.2, 0.3, 1.0)
	C.glClear(C.GL_COLOR_BUFFER_BIT)

	C.glUseProgram(p.program)
	C.glUniform2f(p.uScreen, C.GLfloat(screenWidth), C.GLfloat(screenHeight))
	C.glBindBuffer(C.GL_ARRAY_BUFFER, p.vbo)
	C.glEnableVertexAttribArray(C.GLuint(p.aPos))
	C.glEnableVertexAttribArray(C.GLuint(p.aTex))
	C.glVertexAttribPointer(C.GLuint(p.aPos), 2, C.GL_FLOAT, C.GL_FALSE, 16, unsafe.Pointer(uintptr(0)))
	C.glVertexAttribPointer(C.GLuint(p.aTex), 2, C.GL_FLOAT, C.GL_FALSE, 16, unsafe.Pointer(uintptr(8)))
	C.glUniform1i(p.uTex, 0)
	C.glActiveTexture(C.GL_TEXTURE0)

	for _, w := range windows {
		surf := w.Surface
		tex, ok := p.textures[surf]
		if !ok {
			continue
		}
		C.glBindTexture(C.GL_TEXTURE_2D, tex)
		C.glUniform2f(p.uTrans, C.GLfloat(w.X), C.GLfloat(w.Y))
		C.glUniform2f(p.uScale, C.GLfloat(surf.TexWidth), C.GLfloat(surf.TexHeight))
		C.glDrawArrays(C.GL_TRIANGLE_STRIP, 0, 4)
	}
	p.Stats.FramesComposited++
}

func (p *Pipeline) Destroy() {
	C.glDeleteProgram(p.program)
	C.glDeleteBuffers(1, &p.vbo)
	for _, tex := range p.textures {
		tex := tex
		C.glDeleteTextures(1, &tex)
	}
}

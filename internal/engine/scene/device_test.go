package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/shadowview/internal/engine/model"
	"github.com/Faultbox/shadowview/internal/engine/shadow"
	"github.com/Faultbox/shadowview/pkg/formats"
	"github.com/Faultbox/shadowview/pkg/math"
)

// recordingDevice captures the calls made by the passes.
type recordingDevice struct {
	nextProgram uint32
	compileErr  error
	names       map[int32]string
	locs        map[string]int32

	calls    []string
	uniforms map[string]any
	textures map[uint32]uint32
	draws    []draw
}

type draw struct {
	prim       formats.PrimitiveType
	count      int
	byteOffset int
	// material uniforms at draw time
	ambient  formats.Color
	diffuse  formats.Color
	specular formats.Color
}

func newRecordingDevice() *recordingDevice {
	return &recordingDevice{
		names:    make(map[int32]string),
		locs:     make(map[string]int32),
		uniforms: make(map[string]any),
		textures: make(map[uint32]uint32),
	}
}

func (d *recordingDevice) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *recordingDevice) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	if d.compileErr != nil {
		return 0, d.compileErr
	}
	d.nextProgram++
	d.record("compile %d", d.nextProgram)
	return d.nextProgram, nil
}

func (d *recordingDevice) DeleteProgram(program uint32) { d.record("delete %d", program) }

func (d *recordingDevice) UniformLocation(program uint32, name string) int32 {
	key := fmt.Sprintf("%d:%s", program, name)
	if loc, ok := d.locs[key]; ok {
		return loc
	}
	loc := int32(len(d.locs))
	d.locs[key] = loc
	d.names[loc] = name
	return loc
}

func (d *recordingDevice) UseProgram(program uint32) { d.record("use %d", program) }
func (d *recordingDevice) BindMesh(vbo, ebo uint32) { d.record("bind %d %d", vbo, ebo) }
func (d *recordingDevice) UnbindMesh() { d.record("unbind") }

func (d *recordingDevice) EnableAttribute(location uint32, byteOffset int) {
	d.record("attrib %d %d", location, byteOffset)
}

func (d *recordingDevice) set(loc int32, v any) { d.uniforms[d.names[loc]] = v }

func (d *recordingDevice) SetMat4(loc int32, m math.Mat4) { d.set(loc, m) }
func (d *recordingDevice) SetVec3(loc int32, v math.Vec3) { d.set(loc, v) }
func (d *recordingDevice) SetColor(loc int32, c formats.Color) { d.set(loc, c) }
func (d *recordingDevice) SetFloat(loc int32, v float32) { d.set(loc, v) }
func (d *recordingDevice) SetInt(loc int32, v int32) { d.set(loc, v) }
func (d *recordingDevice) SetBool(loc int32, v bool) { d.set(loc, v) }

func (d *recordingDevice) BindTexture(unit, texture uint32) {
	d.textures[unit] = texture
	d.record("texture %d %d", unit, texture)
}

func (d *recordingDevice) DrawElements(prim formats.PrimitiveType, count, byteOffset int) {
	dr := draw{prim: prim, count: count, byteOffset: byteOffset}
	dr.ambient, _ = d.uniforms["uMaterial.ambient"].(formats.Color)
	dr.diffuse, _ = d.uniforms["uMaterial.diffuse"].(formats.Color)
	dr.specular, _ = d.uniforms["uMaterial.specular"].(formats.Color)
	d.draws = append(d.draws, dr)
	d.record("draw %d %d", count, byteOffset)
}

func (d *recordingDevice) Clear() { d.record("clear") }

// fakeStore is a MeshStore without GPU backing.
type fakeStore struct {
	vbo, ebo  uint32
	destroyed bool
}

func (s *fakeStore) VertexBuffer() uint32 { return s.vbo }
func (s *fakeStore) IndexBuffer() uint32 { return s.ebo }
func (s *fakeStore) Destroy() { s.destroyed = true }

type fakeAllocator struct {
	next uint32
}

func (a *fakeAllocator) CreateMesh(vertices []float32, indices []uint32) (model.MeshStore, error) {
	a.next += 2
	return &fakeStore{vbo: a.next - 1, ebo: a.next}, nil
}

// fakeView is a hand-built model.View.
type fakeView struct {
	store  model.MeshStore
	offset int
	parts  []formats.Part
	matrix math.Mat4
	scene  math.Mat4
	tex    shadow.Texture
}

func (v *fakeView) Store() model.MeshStore { return v.store }
func (v *fakeView) NormalOffset() int { return v.offset }
func (v *fakeView) Parts() []formats.Part { return v.parts }
func (v *fakeView) ModelMatrix() math.Mat4 { return v.matrix }
func (v *fakeView) SceneMatrix() math.Mat4 { return v.scene }
func (v *fakeView) ShadowTexture() shadow.Texture { return v.tex }

// depthBackend lets tests obtain finished shadow textures.
type depthBackend struct {
	dev *recordingDevice
}

func (b depthBackend) CreateDepthTarget(resolution int32) (uint32, uint32, error) {
	return 11, 42, nil
}
func (b depthBackend) BeginDepth(fbo uint32, resolution int32) { b.dev.record("depth begin") }
func (b depthBackend) EndDepth() { b.dev.record("depth end") }
func (b depthBackend) DeleteDepthTarget(fbo, texture uint32) { b.dev.record("depth delete") }

func newShadowMap(t *testing.T, dev *recordingDevice) *shadow.Map {
	t.Helper()
	m, err := shadow.NewMap(depthBackend{dev: dev}, 64)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

// finishedTexture returns a valid depth texture from a throwaway map.
func finishedTexture(t *testing.T) shadow.Texture {
	t.Helper()
	return newShadowMap(t, newRecordingDevice()).Begin().Finish()
}

// writeOBJ writes a single-triangle mesh offset along X.
func writeOBJ(t *testing.T, name string, x float32) string {
	t.Helper()
	text := fmt.Sprintf("o body\nv %g 0 0\nv %g 0 0\nv %g 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n", x, x+1, x)
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadModel(t *testing.T, alloc model.BufferAllocator, path string) *model.Model {
	t.Helper()
	m, err := model.Load(path, alloc)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	return m
}

var errCompile = errors.New("compile failed")

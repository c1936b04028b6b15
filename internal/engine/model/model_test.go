package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/shadowview/pkg/math"
)

type fakeStore struct {
	destroyed int
}

func (s *fakeStore) VertexBuffer() uint32 { return 1 }
func (s *fakeStore) IndexBuffer() uint32 { return 2 }
func (s *fakeStore) Destroy() { s.destroyed++ }

type fakeAllocator struct {
	err      error
	calls    int
	vertices []float32
	indices  []uint32
	store    *fakeStore
}

func (a *fakeAllocator) CreateMesh(vertices []float32, indices []uint32) (MeshStore, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	a.vertices, a.indices = vertices, indices
	a.store = &fakeStore{}
	return a.store, nil
}

type countingRenderer struct {
	views []View
}

func (r *countingRenderer) Render(v View, p FrameParams) error {
	r.views = append(r.views, v)
	return nil
}

const twoPartOBJ = `o body
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 -2
vn 0 0 1
f 1//1 2//1 3//1
o wheel
f 1//1 3//1 4//1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	alloc := &fakeAllocator{}
	m, err := Load(writeFile(t, "bike.obj", twoPartOBJ), alloc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if alloc.calls != 1 {
		t.Errorf("expected one upload, got %d", alloc.calls)
	}
	// 6 corners, positions then normals
	if len(alloc.vertices) != 6*3*2 {
		t.Errorf("expected %d floats, got %d", 6*3*2, len(alloc.vertices))
	}
	if m.NormalOffset() != 6*12 {
		t.Errorf("normal offset = %d, want %d", m.NormalOffset(), 6*12)
	}
	if len(m.Parts()) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(m.Parts()))
	}
	for i, idx := range alloc.indices {
		if idx != uint32(i) {
			t.Errorf("index %d = %d", i, idx)
		}
	}
	if b := m.Bounds(); b.Z.Min != -2 || b.X.Max != 1 {
		t.Errorf("unexpected bounds %+v", b)
	}
	if m.Store() == nil || m.Empty() {
		t.Error("model with geometry should have a store")
	}
	if m.ModelMatrix() != math.Identity() || m.SceneMatrix() != math.Identity() {
		t.Error("transforms should start as identity")
	}
	if m.RenderMode() != ModeScene {
		t.Errorf("default mode = %s, want scene", m.RenderMode())
	}
}

func TestLoadEmpty(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.obj") }},
		{"empty file", func(t *testing.T) string { return writeFile(t, "empty.obj", "") }},
		{"vertices only", func(t *testing.T) string { return writeFile(t, "points.obj", "v 0 0 0\nv 1 1 1\n") }},
		{"only bad faces", func(t *testing.T) string {
			return writeFile(t, "quad.obj", "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1 4//1\n")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := &fakeAllocator{}
			m, err := Load(tt.path(t), alloc)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if alloc.calls != 0 {
				t.Error("no buffers should be allocated")
			}
			if !m.Empty() {
				t.Error("model should be empty")
			}

			r := &countingRenderer{}
			if err := m.Render(Renderers{Scene: r, Shadow: r}, FrameParams{}); err != nil {
				t.Errorf("Render: %v", err)
			}
			if len(r.views) != 0 {
				t.Error("empty model must not reach a renderer")
			}
			m.Destroy()
		})
	}
}

func TestLoadUploadError(t *testing.T) {
	boom := errors.New("out of memory")
	_, err := Load(writeFile(t, "bike.obj", twoPartOBJ), &fakeAllocator{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected upload error, got %v", err)
	}
}

func TestTransformsCompose(t *testing.T) {
	m := &Model{matrix: math.Identity(), sceneMatrix: math.Identity()}
	y := math.Vec3{Y: 1}
	m.Translate(2, 0, 0).Rotate(20, y).Scale(2)

	want := math.Translate(2, 0, 0).Mul(math.Rotate(20, y)).Mul(math.Scale(2, 2, 2))
	if m.ModelMatrix() != want {
		t.Errorf("model matrix = %v, want %v", m.ModelMatrix(), want)
	}

	// The translation is applied last, in the parent frame.
	origin := m.ModelMatrix().TransformVec3(math.Vec3{})
	if origin != (math.Vec3{X: 2}) {
		t.Errorf("origin maps to %+v", origin)
	}

	m.ScaleXYZ(1, 3, 1)
	if got := m.ModelMatrix(); got != want.Mul(math.Scale(1, 3, 1)) {
		t.Errorf("ScaleXYZ did not post-multiply: %v", got)
	}
}

func TestRenderDispatch(t *testing.T) {
	m, err := Load(writeFile(t, "bike.obj", twoPartOBJ), &fakeAllocator{})
	if err != nil {
		t.Fatal(err)
	}
	scene, shadowR := &countingRenderer{}, &countingRenderer{}
	r := Renderers{Scene: scene, Shadow: shadowR}

	m.SetRenderMode(ModeShadow)
	if err := m.Render(r, FrameParams{}); err != nil {
		t.Fatal(err)
	}
	m.SetRenderMode(ModeScene)
	if err := m.Render(r, FrameParams{}); err != nil {
		t.Fatal(err)
	}

	if len(shadowR.views) != 1 || len(scene.views) != 1 {
		t.Fatalf("scene got %d, shadow got %d renders", len(scene.views), len(shadowR.views))
	}
	if scene.views[0] != View(m) {
		t.Error("renderer should receive the model itself")
	}
}

func TestRenderMissingRenderer(t *testing.T) {
	m, _ := Load(writeFile(t, "bike.obj", twoPartOBJ), &fakeAllocator{})
	m.SetRenderMode(ModeShadow)
	if err := m.Render(Renderers{Scene: &countingRenderer{}}, FrameParams{}); err == nil {
		t.Error("expected an error without a shadow renderer")
	}
}

func TestDestroyReleasesOnce(t *testing.T) {
	alloc := &fakeAllocator{}
	m, _ := Load(writeFile(t, "bike.obj", twoPartOBJ), alloc)
	m.Destroy()
	m.Destroy()
	if alloc.store.destroyed != 1 {
		t.Errorf("store destroyed %d times, want 1", alloc.store.destroyed)
	}
	if !m.Empty() {
		t.Error("destroyed model should be empty")
	}
}

func TestRenderModeString(t *testing.T) {
	tests := map[RenderMode]string{
		ModeScene:     "scene",
		ModeShadow:    "shadow",
		RenderMode(7): "RenderMode(7)",
	}
	for mode, want := range tests {
		if got := mode.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

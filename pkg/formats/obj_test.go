package formats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/shadowview/pkg/math"
)

func parseString(t *testing.T, src string, lib MaterialLibrary) *OBJ {
	t.Helper()
	return ParseOBJ(strings.NewReader(src), OBJOptions{
		ResolveMaterials: func(string) MaterialLibrary { return lib },
	})
}

func TestParseOBJ_SingleTriangle(t *testing.T) {
	obj := parseString(t, `o body
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1/1/1 2/1/1 3/1/1
`, nil)

	if len(obj.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(obj.Parts))
	}
	part := obj.Parts[0]
	if part.Type != PrimitiveTriangles || part.Start != 0 || part.Length != 3 {
		t.Errorf("unexpected part %+v", part)
	}
	if part.Name != "body" {
		t.Errorf("expected part name body, got %q", part.Name)
	}
	if obj.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", obj.VertexCount())
	}
	want := []uint32{0, 1, 2}
	if len(obj.Indices) != len(want) {
		t.Fatalf("expected indices %v, got %v", want, obj.Indices)
	}
	for i := range want {
		if obj.Indices[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, obj.Indices[i], want[i])
		}
	}
	wantBox := BoundingBox{X: Range{0, 1}, Y: Range{0, 1}, Z: Range{0, 0}}
	if obj.Bounds != wantBox {
		t.Errorf("expected bounds %+v, got %+v", wantBox, obj.Bounds)
	}
}

func TestParseOBJ_ExpandsSharedVertices(t *testing.T) {
	// A quad split into two triangles sharing an edge: 4 source positions,
	// 6 uncompressed vertices.
	obj := parseString(t, `o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
f 1//1 3//1 4//1
`, nil)

	if obj.VertexCount() != 6 || len(obj.Normals) != 6 {
		t.Errorf("expected 6 uncompressed vertices, got %d positions / %d normals", obj.VertexCount(), len(obj.Normals))
	}
	if len(obj.Indices) != 6 {
		t.Errorf("expected 6 indices, got %d", len(obj.Indices))
	}
	if obj.Positions[3] != obj.Positions[0] {
		t.Errorf("corner 4 should repeat position 1, got %v", obj.Positions[3])
	}
	for i, idx := range obj.Indices {
		if int(idx) >= obj.VertexCount() {
			t.Errorf("index %d = %d out of range %d", i, idx, obj.VertexCount())
		}
	}
}

func TestParseOBJ_DropsNonTriangles(t *testing.T) {
	obj := parseString(t, `o poly
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
f 1//1 2//1
f 1//1 2//1 3//1
`, nil)

	if obj.Skipped != 2 {
		t.Errorf("expected 2 skipped faces, got %d", obj.Skipped)
	}
	if len(obj.Indices) != 3 || obj.VertexCount() != 3 {
		t.Errorf("expected one accepted face, got %d indices", len(obj.Indices))
	}
}

func TestParseOBJ_DropsUndefinedReferences(t *testing.T) {
	tests := []struct {
		name string
		face string
	}{
		{"position beyond parsed", "f 1//1 2//1 9//1"},
		{"normal beyond parsed", "f 1//1 2//1 3//2"},
		{"zero index", "f 0//1 1//1 2//1"},
		{"garbage index", "f a//1 1//1 2//1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "o p\nv 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\n" + tt.face + "\n"
			obj := parseString(t, src, nil)
			if obj.Skipped != 1 {
				t.Errorf("expected face to be skipped, skipped=%d", obj.Skipped)
			}
			if len(obj.Indices) != 0 || obj.VertexCount() != 0 {
				t.Errorf("skipped face changed counts: %d indices, %d vertices", len(obj.Indices), obj.VertexCount())
			}
			if len(obj.Parts) != 0 {
				t.Errorf("expected no parts, got %d", len(obj.Parts))
			}
		})
	}
}

func TestParseOBJ_ForwardReferenceDropped(t *testing.T) {
	// The face refers to vertex 3 before it is defined.
	obj := parseString(t, `o p
v 0 0 0
v 1 0 0
vn 0 0 1
f 1//1 2//1 3//1
v 0 1 0
f 1//1 2//1 3//1
`, nil)

	if obj.Skipped != 1 {
		t.Errorf("expected 1 skipped face, got %d", obj.Skipped)
	}
	if len(obj.Indices) != 3 {
		t.Errorf("expected 3 indices, got %d", len(obj.Indices))
	}
}

func TestParseOBJ_Empty(t *testing.T) {
	obj := parseString(t, "", nil)
	if len(obj.Parts) != 0 || len(obj.Indices) != 0 || obj.VertexCount() != 0 {
		t.Errorf("expected empty mesh, got %+v", obj)
	}
	if len(obj.VertexData()) != 0 || obj.NormalOffset() != 0 {
		t.Error("empty mesh should have no vertex data")
	}
}

func TestParseOBJ_NormalsAreNormalized(t *testing.T) {
	obj := parseString(t, `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 7
f 1//1 2//1 3//1
`, nil)

	if len(obj.Normals) != 3 {
		t.Fatalf("expected 3 normals, got %d", len(obj.Normals))
	}
	if obj.Normals[0] != (math.Vec3{X: 0, Y: 0, Z: 1}) {
		t.Errorf("expected unit normal, got %v", obj.Normals[0])
	}
}

func TestParseOBJ_FacesBeforeObjectMarker(t *testing.T) {
	obj := parseString(t, `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`, nil)

	if len(obj.Parts) != 1 {
		t.Fatalf("expected an implicit part, got %d", len(obj.Parts))
	}
	if obj.Parts[0].Start != 0 || obj.Parts[0].Length != 3 {
		t.Errorf("unexpected implicit part %+v", obj.Parts[0])
	}
}

func TestParseOBJ_PartsSpanTheirFaces(t *testing.T) {
	obj := parseString(t, `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
o first
f 1//1 2//1 3//1
f 1//1 2//1 3//1
o empty
o second
f 1//1 2//1 3//1
`, nil)

	if len(obj.Parts) != 2 {
		t.Fatalf("expected 2 parts (empty object dropped), got %d", len(obj.Parts))
	}
	if obj.Parts[0].Start != 0 || obj.Parts[0].Length != 6 {
		t.Errorf("first part: %+v", obj.Parts[0])
	}
	if obj.Parts[1].Start != 6 || obj.Parts[1].Length != 3 {
		t.Errorf("second part: %+v", obj.Parts[1])
	}
	if got := obj.Parts[1].ByteOffset(); got != 24 {
		t.Errorf("expected byte offset 24, got %d", got)
	}
}

func TestParseOBJ_Materials(t *testing.T) {
	lib := MaterialLibrary{
		"paint": {
			"Kd":    {0.8, 0.1, 0.1},
			"Ka":    {0.2, 0.2, 0.2},
			"Ks":    {0.5, 0.5, 0.5},
			"Ns":    {500, 12},
			"illum": {2},
		},
		"glass": {
			"Kd": {0.9, 0.9, 1},
			"Tr": {0.75},
		},
		"smoke": {
			"d":  {0.5},
			"Tr": {0.9},
		},
		"flat": {
			"Kd": {1, 1},
		},
	}

	obj := parseString(t, `mtllib scene.mtl
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
o glass
usemtl glass
f 1//1 2//1 3//1
o body
usemtl paint
f 1//1 2//1 3//1
o smoke
usemtl smoke
f 1//1 2//1 3//1
o flat
usemtl flat
f 1//1 2//1 3//1
`, lib)

	if len(obj.Parts) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(obj.Parts))
	}

	byName := make(map[string]Material)
	for _, p := range obj.Parts {
		byName[p.Name] = p.Material
	}

	paint := byName["body"]
	if paint.Diffuse != (Color{0.8, 0.1, 0.1}) || paint.DiffuseIntensity != 1 {
		t.Errorf("paint diffuse: %+v", paint)
	}
	if paint.Ambient != (Color{0.2, 0.2, 0.2}) || paint.AmbientIntensity != 1 {
		t.Errorf("paint ambient: %+v", paint)
	}
	if paint.Specular != (Color{0.5, 0.5, 0.5}) {
		t.Errorf("paint specular: %+v", paint.Specular)
	}
	if paint.SpecularIntensity != 1.5 {
		t.Errorf("expected specular intensity 3*500/1000 = 1.5, got %f", paint.SpecularIntensity)
	}
	if paint.Brightness != 2 {
		t.Errorf("expected brightness from illum, got %f", paint.Brightness)
	}

	glass := byName["glass"]
	if glass.Opacity != 0.25 {
		t.Errorf("expected opacity 1-Tr = 0.25, got %f", glass.Opacity)
	}
	if glass.SpecularIntensity != 0 {
		t.Errorf("missing Ns should give zero specular intensity, got %f", glass.SpecularIntensity)
	}
	if glass.Brightness != 1 {
		t.Errorf("missing illum should give brightness 1, got %f", glass.Brightness)
	}

	if smoke := byName["smoke"]; smoke.Opacity != 0.5 {
		t.Errorf("d should win over Tr, got opacity %f", smoke.Opacity)
	}

	flat := byName["flat"]
	if flat.Diffuse != White || flat.DiffuseIntensity != 1.0 {
		t.Errorf("two-component Kd should be ignored, got %+v", flat)
	}
}

func TestParseOBJ_PartsSortedByOpacity(t *testing.T) {
	lib := MaterialLibrary{
		"a": {"d": {0.3}},
		"b": {"d": {1}},
		"c": {"d": {0.7}},
		"e": {"d": {1}},
	}
	obj := parseString(t, `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
o a
usemtl a
f 1//1 2//1 3//1
o b
usemtl b
f 1//1 2//1 3//1
o c
usemtl c
f 1//1 2//1 3//1
o e
usemtl e
f 1//1 2//1 3//1
`, lib)

	if len(obj.Parts) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(obj.Parts))
	}
	for i := 1; i < len(obj.Parts); i++ {
		if obj.Parts[i-1].Material.Opacity < obj.Parts[i].Material.Opacity {
			t.Errorf("parts %d and %d out of order: %f < %f", i-1, i,
				obj.Parts[i-1].Material.Opacity, obj.Parts[i].Material.Opacity)
		}
	}
	// Equal opacities keep file order.
	if obj.Parts[0].Name != "b" || obj.Parts[1].Name != "e" {
		t.Errorf("expected stable order b, e; got %s, %s", obj.Parts[0].Name, obj.Parts[1].Name)
	}
}

func TestParseOBJ_UsemtlSplitsPart(t *testing.T) {
	lib := MaterialLibrary{"red": {"Kd": {1, 0, 0}}}
	obj := parseString(t, `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
o body
f 1//1 2//1 3//1
usemtl red
f 1//1 2//1 3//1
`, lib)

	if len(obj.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(obj.Parts))
	}
	if obj.Parts[0].Material.Diffuse != White {
		t.Errorf("faces before usemtl should keep the default material")
	}
	if obj.Parts[1].Material.Diffuse != (Color{1, 0, 0}) || obj.Parts[1].Start != 3 {
		t.Errorf("unexpected second part %+v", obj.Parts[1])
	}
}

func TestParseOBJ_VertexData(t *testing.T) {
	obj := parseString(t, `v 1 2 3
v 4 5 6
v 7 8 9
vn 1 0 0
f 1//1 2//1 3//1
`, nil)

	data := obj.VertexData()
	if len(data) != 18 {
		t.Fatalf("expected 18 floats, got %d", len(data))
	}
	if obj.NormalOffset() != 36 {
		t.Errorf("expected normal offset 36 bytes, got %d", obj.NormalOffset())
	}
	if data[0] != 1 || data[8] != 9 || data[9] != 1 || data[10] != 0 {
		t.Errorf("unexpected layout %v", data)
	}
}

func TestParseOBJFile(t *testing.T) {
	dir := t.TempDir()
	mtl := "newmtl red\nKd 1 0 0\n"
	obj := "mtllib parts.mtl\no tri\nusemtl red\nv 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n"
	if err := os.WriteFile(filepath.Join(dir, "parts.mtl"), []byte(mtl), 0644); err != nil {
		t.Fatalf("write mtl: %v", err)
	}
	path := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(path, []byte(obj), 0644); err != nil {
		t.Fatalf("write obj: %v", err)
	}

	got := ParseOBJFile(path, OBJOptions{})
	if len(got.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(got.Parts))
	}
	if got.Parts[0].Material.Diffuse != (Color{1, 0, 0}) {
		t.Errorf("material not resolved relative to mesh dir: %+v", got.Parts[0].Material)
	}
}

func TestParseOBJFileMissing(t *testing.T) {
	got := ParseOBJFile("/nonexistent/path/model.obj", OBJOptions{})
	if got == nil {
		t.Fatal("expected an empty mesh, got nil")
	}
	if len(got.Parts) != 0 || got.VertexCount() != 0 {
		t.Errorf("expected empty mesh, got %+v", got)
	}
}

func TestParseOBJ_LongLines(t *testing.T) {
	tests := []struct {
		name    string
		comment int
	}{
		{"past the default scanner buffer", 70 * 1024},
		{"past the line limit", 2 * maxLineLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\n# " + strings.Repeat("x", tt.comment) +
				"\nf 1//1 2//1 3//1\n"
			obj := parseString(t, src, nil)
			if len(obj.Indices) != 3 {
				t.Fatalf("expected 3 indices after the long line, got %d", len(obj.Indices))
			}
		})
	}
}

func TestParseOBJ_LongLineWithinLimitIsParsed(t *testing.T) {
	// Trailing blanks push the vertex line past 64 KiB without changing it.
	src := "v 0 0 0\nv 2 0 0" + strings.Repeat(" ", 100*1024) + "\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n"
	obj := parseString(t, src, nil)
	if len(obj.Indices) != 3 {
		t.Fatalf("expected 3 indices, got %d", len(obj.Indices))
	}
	if obj.Bounds.X.Max != 2 {
		t.Errorf("bounds X max = %v, want 2", obj.Bounds.X.Max)
	}
}

func TestParseOBJ_OverLongLineSkippedAlone(t *testing.T) {
	// The vertex on the over-long line is dropped, so the face is out of range.
	src := "v 0 0 0\nv 1 0 0" + strings.Repeat(" ", 2*maxLineLength) + "\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\nf 1//1 2//1 2//1\n"
	obj := parseString(t, src, nil)
	if obj.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", obj.Skipped)
	}
	if len(obj.Indices) != 3 {
		t.Errorf("expected the face over the two remaining vertices, got %d indices", len(obj.Indices))
	}
}

package formats

import (
	"cmp"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowview/pkg/math"
)

// OBJ is a triangulated mesh ready for upload.
// Positions and Normals are parallel: entry i of each belongs to vertex i.
type OBJ struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Indices   []uint32
	Parts     []Part
	Bounds    BoundingBox

	// Skipped counts faces dropped for having other than three corners
	// or referencing undefined vertices.
	Skipped int
}

// VertexCount returns the number of uncompressed vertices.
func (o *OBJ) VertexCount() int {
	return len(o.Positions)
}

// VertexData returns all positions followed by all normals as a flat array.
func (o *OBJ) VertexData() []float32 {
	data := make([]float32, 0, 3*(len(o.Positions)+len(o.Normals)))
	for _, p := range o.Positions {
		data = append(data, p.X, p.Y, p.Z)
	}
	for _, n := range o.Normals {
		data = append(data, n.X, n.Y, n.Z)
	}
	return data
}

// NormalOffset returns the byte offset of the first normal in VertexData.
func (o *OBJ) NormalOffset() int {
	return len(o.Positions) * 3 * 4
}

// OBJOptions controls how references out of the mesh file are resolved.
type OBJOptions struct {
	// ResolveMaterials loads the library named by an mtllib line.
	// Nil means mtllib lines are ignored.
	ResolveMaterials func(name string) MaterialLibrary

	// Logger receives parse diagnostics. Nil discards them.
	Logger *zap.Logger
}

// objParser holds the state of one parse.
type objParser struct {
	opts      OBJOptions
	log       *zap.Logger
	materials MaterialLibrary

	// compressed arrays, indexed by the file's 1-based references
	positions []math.Vec3
	normals   []math.Vec3

	out     *OBJ
	current Part
	line    int
}

// ParseOBJ reads a Wavefront mesh. Only triangular faces are accepted;
// malformed faces are skipped and parsing continues.
func ParseOBJ(r io.Reader, opts OBJOptions) *OBJ {
	p := &objParser{
		opts:      opts,
		log:       opts.Logger,
		materials: make(MaterialLibrary),
		out:       &OBJ{},
		current:   newPart(""),
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}

	eachLine(r, p.log, func(n int, line string) {
		p.line = n
		p.parseLine(line)
	})

	return p.finish()
}

// ParseOBJFile reads a mesh from disk, resolving mtllib names relative to
// the mesh's directory. An unreadable file yields an empty mesh.
func ParseOBJFile(path string, opts OBJOptions) *OBJ {
	if opts.ResolveMaterials == nil {
		dir := filepath.Dir(path)
		log := opts.Logger
		opts.ResolveMaterials = func(name string) MaterialLibrary {
			return ParseMTLFile(filepath.Join(dir, name), log)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Debug("mesh unavailable", zap.String("path", path), zap.Error(err))
		}
		return &OBJ{}
	}
	defer f.Close()

	return ParseOBJ(f, opts)
}

func (p *objParser) parseLine(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return
	}

	switch fields[0] {
	case "mtllib":
		if len(fields) > 1 && p.opts.ResolveMaterials != nil {
			p.materials.Merge(p.opts.ResolveMaterials(fields[len(fields)-1]))
		}
	case "o":
		name := ""
		if len(fields) > 1 {
			name = fields[len(fields)-1]
		}
		p.closePart()
		p.current = newPart(name)
	case "usemtl":
		if len(fields) > 1 {
			p.useMaterial(fields[len(fields)-1])
		}
	case "v":
		v, ok := p.parseVec3(fields)
		if !ok {
			return
		}
		if len(p.positions) == 0 {
			p.out.Bounds = PointBox(v)
		} else {
			p.out.Bounds = p.out.Bounds.Extend(v)
		}
		p.positions = append(p.positions, v)
	case "vn":
		v, ok := p.parseVec3(fields)
		if !ok {
			return
		}
		p.normals = append(p.normals, v.Normalize())
	case "f":
		p.parseFace(fields[1:])
	}
}

func (p *objParser) parseVec3(fields []string) (math.Vec3, bool) {
	if len(fields) < 4 {
		p.log.Debug("short vector line", zap.Int("line", p.line), zap.String("type", fields[0]))
		return math.Vec3{}, false
	}
	return math.Vec3{
		X: parseFloat(fields[1]),
		Y: parseFloat(fields[2]),
		Z: parseFloat(fields[3]),
	}, true
}

// useMaterial applies a named material to the current part. Faces already
// collected keep their material: the part is split first.
func (p *objParser) useMaterial(name string) {
	if p.current.IsValid() {
		prev := p.current.Name
		p.closePart()
		p.current = newPart(prev)
	}

	props, ok := p.materials[name]
	if !ok {
		p.log.Debug("unknown material", zap.Int("line", p.line), zap.String("material", name))
	}
	p.current.Material = materialFromProps(p.current.Material, props)
}

// materialFromProps overlays MTL properties onto m.
func materialFromProps(m Material, props MaterialProps) Material {
	if kd := props["Kd"]; len(kd) == 3 {
		m.Diffuse = Color{kd[0], kd[1], kd[2]}
		m.DiffuseIntensity = 1
	}
	if ka := props["Ka"]; len(ka) == 3 {
		m.Ambient = Color{ka[0], ka[1], ka[2]}
		m.AmbientIntensity = 1
	}
	if ks := props["Ks"]; len(ks) == 3 {
		m.Specular = Color{ks[0], ks[1], ks[2]}
	}

	// A material without Ns has no specular highlight.
	m.SpecularIntensity = 3 * props.Get("Ns", 0) / 1000

	switch {
	case props.Has("d"):
		m.Opacity = props.Get("d", 1)
	case props.Has("Tr"):
		m.Opacity = 1 - props.Get("Tr", 0)
	}

	m.Brightness = props.Get("illum", 1)
	return m
}

// faceCorner resolves one "v/vt/vn" token to 0-based position and normal
// indices. The texture coordinate is ignored.
func faceCorner(tok string) (pos, normal int) {
	parts := strings.Split(tok, "/")
	pos = parseIndex(parts[0])
	normal = parseIndex(parts[len(parts)-1])
	return pos, normal
}

// parseIndex converts a 1-based reference; anything unparsable becomes -1.
func parseIndex(tok string) int {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return -1
	}
	return n - 1
}

func (p *objParser) parseFace(corners []string) {
	if len(corners) != 3 {
		p.out.Skipped++
		p.log.Debug("non-triangular face skipped", zap.Int("line", p.line), zap.Int("corners", len(corners)))
		return
	}

	var pos, nrm [3]int
	for i, tok := range corners {
		pos[i], nrm[i] = faceCorner(tok)
	}

	for i := 0; i < 3; i++ {
		if pos[i] < 0 || pos[i] >= len(p.positions) {
			p.out.Skipped++
			p.log.Debug("face references undefined position",
				zap.Int("line", p.line), zap.Ints("indices", pos[:]), zap.Int("positions", len(p.positions)))
			return
		}
		if nrm[i] < 0 || nrm[i] >= len(p.normals) {
			p.out.Skipped++
			p.log.Debug("face references undefined normal",
				zap.Int("line", p.line), zap.Ints("indices", nrm[:]), zap.Int("normals", len(p.normals)))
			return
		}
	}

	if p.current.Start < 0 {
		p.current.Start = len(p.out.Indices)
	}

	base := uint32(len(p.out.Positions))
	for i := 0; i < 3; i++ {
		p.out.Positions = append(p.out.Positions, p.positions[pos[i]])
		p.out.Normals = append(p.out.Normals, p.normals[nrm[i]])
	}
	p.out.Indices = append(p.out.Indices, base, base+1, base+2)
	p.current.Length = len(p.out.Indices) - p.current.Start
}

func (p *objParser) closePart() {
	if p.current.IsValid() {
		p.out.Parts = append(p.out.Parts, p.current)
	}
}

// finish closes the last part and orders parts so opaque geometry draws
// before translucent geometry.
func (p *objParser) finish() *OBJ {
	p.closePart()
	slices.SortStableFunc(p.out.Parts, func(a, b Part) int {
		return cmp.Compare(b.Material.Opacity, a.Material.Opacity)
	})
	return p.out
}

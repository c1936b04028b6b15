package formats

import (
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// MaterialProps maps an MTL property key (Kd, Ns, d, ...) to its values.
type MaterialProps map[string][]float32

// Get returns the first value of key, or fallback when the key is missing
// or has no values.
func (p MaterialProps) Get(key string, fallback float32) float32 {
	if v := p[key]; len(v) > 0 {
		return v[0]
	}
	return fallback
}

// Has reports whether key was present in the material block.
func (p MaterialProps) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// MaterialLibrary maps material names to their property bags.
type MaterialLibrary map[string]MaterialProps

// Merge copies other into l. Entries in other replace entries with the same name.
func (l MaterialLibrary) Merge(other MaterialLibrary) {
	for name, props := range other {
		l[name] = props
	}
}

// ParseMTL reads a material library. Property arity is not checked here;
// consumers validate the values they use.
func ParseMTL(r io.Reader) MaterialLibrary {
	return parseMTL(r, zap.NewNop())
}

func parseMTL(r io.Reader, log *zap.Logger) MaterialLibrary {
	lib := make(MaterialLibrary)

	var name string
	props := make(MaterialProps)
	flush := func() {
		if len(props) > 0 {
			lib[name] = props
			props = make(MaterialProps)
		}
	}

	eachLine(r, log, func(_ int, line string) {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			return
		}

		if fields[0] == "newmtl" {
			flush()
			name = fields[len(fields)-1]
			return
		}

		props[fields[0]] = parseFloats(fields[1:])
	})
	flush()

	return lib
}

// ParseMTLFile reads a material library from disk. An unreadable file
// yields an empty library; the failure is only logged.
func ParseMTLFile(path string, log *zap.Logger) MaterialLibrary {
	f, err := os.Open(path)
	if err != nil {
		if log != nil {
			log.Debug("material library unavailable", zap.String("path", path), zap.Error(err))
		}
		return make(MaterialLibrary)
	}
	defer f.Close()

	if log == nil {
		log = zap.NewNop()
	}
	return parseMTL(f, log)
}

// parseFloats converts tokens leniently: anything unparsable becomes 0.
func parseFloats(tokens []string) []float32 {
	out := make([]float32, len(tokens))
	for i, tok := range tokens {
		out[i] = parseFloat(tok)
	}
	return out
}

func parseFloat(tok string) float32 {
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0
	}
	return float32(v)
}

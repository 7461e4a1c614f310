// Package wavefront reads and writes Wavefront OBJ meshes and converts them
// to and from UCM models.
package wavefront

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// OBJ format errors.
var (
	ErrInvalidOBJRecord   = errors.New("invalid OBJ record")
	ErrOBJIndexOutOfRange = errors.New("OBJ index out of range")
)

// Corner references one position, texture coordinate and normal.
// Indices are 0-based; -1 marks an absent attribute.
type Corner struct {
	V, VT, VN int
}

// Face is a triangle.
type Face [3]Corner

// OBJ is an indexed triangle mesh with separate attribute index streams.
type OBJ struct {
	Name      string
	Positions []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Normals   []mgl32.Vec3
	Faces     []Face
}

// Parse reads an OBJ mesh. Polygons are fan-triangulated; groups,
// materials and smoothing records are ignored.
func Parse(r io.Reader) (*OBJ, error) {
	obj := &OBJ{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "o":
			if len(fields) > 1 && obj.Name == "" {
				obj.Name = strings.Join(fields[1:], " ")
			}

		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			obj.Positions = append(obj.Positions, mgl32.Vec3{v[0], v[1], v[2]})

		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			obj.TexCoords = append(obj.TexCoords, mgl32.Vec2{v[0], v[1]})

		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			obj.Normals = append(obj.Normals, mgl32.Vec3{v[0], v[1], v[2]})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %w: face needs 3 corners, has %d", lineNo, ErrInvalidOBJRecord, len(fields)-1)
			}
			corners := make([]Corner, len(fields)-1)
			for i, f := range fields[1:] {
				c, err := obj.parseCorner(f)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners[i] = c
			}
			for i := 1; i+1 < len(corners); i++ {
				obj.Faces = append(obj.Faces, Face{corners[0], corners[i], corners[i+1]})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	return obj, nil
}

// parseFloats parses at least n floats; extra components (vertex w,
// texture w, vertex colors) are ignored.
func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%w: want %d components, have %d", ErrInvalidOBJRecord, n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidOBJRecord, fields[i], err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn". Negative indices
// count back from the attributes read so far.
func (o *OBJ) parseCorner(s string) (Corner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 || parts[0] == "" {
		return Corner{}, fmt.Errorf("%w: face corner %q", ErrInvalidOBJRecord, s)
	}

	c := Corner{V: -1, VT: -1, VN: -1}
	counts := []int{len(o.Positions), len(o.TexCoords), len(o.Normals)}
	targets := []*int{&c.V, &c.VT, &c.VN}

	for i, p := range parts {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Corner{}, fmt.Errorf("%w: face corner %q", ErrInvalidOBJRecord, s)
		}
		idx, err := resolveIndex(n, counts[i])
		if err != nil {
			return Corner{}, fmt.Errorf("face corner %q: %w", s, err)
		}
		*targets[i] = idx
	}
	return c, nil
}

func resolveIndex(n, count int) (int, error) {
	switch {
	case n > 0 && n <= count:
		return n - 1, nil
	case n < 0 && -n <= count:
		return count + n, nil
	default:
		return 0, fmt.Errorf("%w: %d (have %d)", ErrOBJIndexOutOfRange, n, count)
	}
}

// WriteTo writes the mesh as OBJ text with 1-based v/vt/vn face triples.
func (o *OBJ) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}

	if o.Name != "" {
		fmt.Fprintf(cw, "o %s\n", o.Name)
	}
	for _, v := range o.Positions {
		fmt.Fprintf(cw, "v %s %s %s\n", formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
	}
	for _, vt := range o.TexCoords {
		fmt.Fprintf(cw, "vt %s %s\n", formatFloat(vt[0]), formatFloat(vt[1]))
	}
	for _, vn := range o.Normals {
		fmt.Fprintf(cw, "vn %s %s %s\n", formatFloat(vn[0]), formatFloat(vn[1]), formatFloat(vn[2]))
	}
	for _, f := range o.Faces {
		fmt.Fprintf(cw, "f %s %s %s\n", formatCorner(f[0]), formatCorner(f[1]), formatCorner(f[2]))
	}

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, bw.Flush()
}

// formatFloat returns the shortest text that parses back to the same float32.
func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func formatCorner(c Corner) string {
	switch {
	case c.VT < 0 && c.VN < 0:
		return strconv.Itoa(c.V + 1)
	case c.VT < 0:
		return fmt.Sprintf("%d//%d", c.V+1, c.VN+1)
	case c.VN < 0:
		return fmt.Sprintf("%d/%d", c.V+1, c.VT+1)
	default:
		return fmt.Sprintf("%d/%d/%d", c.V+1, c.VT+1, c.VN+1)
	}
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

package wavefront

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/ucmtool/pkg/formats"
	"github.com/Faultbox/ucmtool/pkg/mesh"
)

// Options control UCM <-> OBJ conversion.
type Options struct {
	Frame    int  // UCM frame to export
	FlipV    bool // Negate the V texture coordinate (applied both ways)
	Decimals int  // Round exported attributes to this many decimals; 0 keeps exact values
}

// FromUCM converts one frame of a UCM model to an OBJ mesh. Positions,
// texture coordinates and normals are deduplicated independently, each by
// exact equality on that attribute alone.
func FromUCM(u *formats.UCM, opts Options) (*OBJ, error) {
	if opts.Frame < 0 || opts.Frame >= len(u.Frames) {
		return nil, fmt.Errorf("frame %d out of range (model has %d)", opts.Frame, len(u.Frames))
	}
	verts := u.Frames[opts.Frame].Vertices
	if err := mesh.CheckBounds(u.Triangles, len(verts)); err != nil {
		return nil, err
	}

	positions := mesh.NewIndex[mgl32.Vec3](len(verts))
	texCoords := mesh.NewIndex[mgl32.Vec2](len(verts))
	normals := mesh.NewIndex[mgl32.Vec3](len(verts))

	obj := &OBJ{
		Name:  u.Name,
		Faces: make([]Face, len(u.Triangles)),
	}
	for i, tri := range u.Triangles {
		for j, idx := range tri {
			v := verts[idx]
			uv := v.UV
			if opts.FlipV {
				uv[1] = -uv[1]
			}
			obj.Faces[i][j] = Corner{
				V:  int(positions.Add(roundVec3(v.Position, opts.Decimals))),
				VT: int(texCoords.Add(roundVec2(uv, opts.Decimals))),
				VN: int(normals.Add(roundVec3(v.Normal, opts.Decimals))),
			}
		}
	}

	obj.Positions = positions.Items()
	obj.TexCoords = texCoords.Items()
	obj.Normals = normals.Items()
	return obj, nil
}

// ToUCM converts an OBJ mesh to a single-frame UCM model with no tags and
// no hitboxes. Every face corner is resolved to a combined vertex, then the
// corner stream is deduplicated. Missing normals or texture coordinates
// become zero. An empty name falls back to the OBJ object name.
func ToUCM(o *OBJ, name string, opts Options) (*formats.UCM, error) {
	if name == "" {
		name = o.Name
	}

	corners := make([]mesh.Vertex, 0, len(o.Faces)*3)
	for i, f := range o.Faces {
		for _, c := range f {
			v, err := o.resolve(c)
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
			if opts.FlipV {
				v.UV[1] = -v.UV[1]
			}
			corners = append(corners, v)
		}
	}

	table, tris, err := mesh.Deduplicate(corners)
	if err != nil {
		return nil, err
	}

	u := formats.NewUCM(name)
	u.Frames = []formats.UCMFrame{{Vertices: table}}
	u.Triangles = tris
	return u, nil
}

func (o *OBJ) resolve(c Corner) (mesh.Vertex, error) {
	var v mesh.Vertex

	if c.V < 0 || c.V >= len(o.Positions) {
		return v, fmt.Errorf("%w: position %d (have %d)", ErrOBJIndexOutOfRange, c.V, len(o.Positions))
	}
	v.Position = o.Positions[c.V]

	if c.VT >= 0 {
		if c.VT >= len(o.TexCoords) {
			return v, fmt.Errorf("%w: texcoord %d (have %d)", ErrOBJIndexOutOfRange, c.VT, len(o.TexCoords))
		}
		v.UV = o.TexCoords[c.VT]
	}
	if c.VN >= 0 {
		if c.VN >= len(o.Normals) {
			return v, fmt.Errorf("%w: normal %d (have %d)", ErrOBJIndexOutOfRange, c.VN, len(o.Normals))
		}
		v.Normal = o.Normals[c.VN]
	}
	return v, nil
}

func roundVec3(v mgl32.Vec3, decimals int) mgl32.Vec3 {
	if decimals <= 0 {
		return v
	}
	return mgl32.Vec3{round(v[0], decimals), round(v[1], decimals), round(v[2], decimals)}
}

func roundVec2(v mgl32.Vec2, decimals int) mgl32.Vec2 {
	if decimals <= 0 {
		return v
	}
	return mgl32.Vec2{round(v[0], decimals), round(v[1], decimals)}
}

func round(f float32, decimals int) float32 {
	scale := math.Pow(10, float64(decimals))
	return float32(math.Round(float64(f)*scale) / scale)
}

package formats

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/ucmtool/pkg/mesh"
)

// UCM format errors.
var (
	ErrInvalidUCMMagic    = errors.New("invalid UCM magic: expected 'UCM1'")
	ErrTruncatedUCMData   = errors.New("truncated UCM data")
	ErrMalformedUCMLayout = errors.New("malformed UCM layout")
	ErrUCMConstraint      = errors.New("UCM encoding constraint violated")
)

// On-disk layout constants.
const (
	ucmMagic          = "UCM1"
	ucmNameSize       = 64
	ucmTagNameSize    = 16
	ucmHeaderSize     = 0x5C // magic + version + name + 5 counts
	ucmTriangleSize   = 12
	ucmVertexSize     = 32
	ucmTransformSize  = 64
	ucmSphereSize     = 16
	ucmBoxSize        = 60
	ucmHitboxHeadSize = 8
	ucmMaxFrames      = 1 << 16

	// UCMDefaultVersion is the version tag written for new documents.
	UCMDefaultVersion uint32 = 2
)

// UCMFormat distinguishes the two on-disk variants. It is decided by the
// presence of the hitbox section, not by the version tag.
type UCMFormat int

const (
	UCMFormatV2     UCMFormat = iota // Hitbox section present (Crazy Machines)
	UCMFormatLegacy                  // No hitbox section (Earth Squad)
)

// String returns a human-readable format name.
func (f UCMFormat) String() string {
	switch f {
	case UCMFormatV2:
		return "V2"
	case UCMFormatLegacy:
		return "Legacy"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// ParseUCMFormat parses a format name as used in config files: "v2" or "legacy".
func ParseUCMFormat(s string) (UCMFormat, error) {
	switch strings.ToLower(s) {
	case "v2":
		return UCMFormatV2, nil
	case "legacy":
		return UCMFormatLegacy, nil
	default:
		return 0, fmt.Errorf("unknown UCM format %q (want v2 or legacy)", s)
	}
}

// UCMFrame is one animation keyframe's vertex table.
type UCMFrame struct {
	Vertices []mesh.Vertex
}

// UCMTag is a named attachment point with one transform per frame.
type UCMTag struct {
	Name       string
	Transforms []mgl32.Mat4 // len == number of frames
}

// UCMSphere is a sphere hitbox. Field order matches the file record.
type UCMSphere struct {
	Center mgl32.Vec3
	Radius float32
}

// UCMBox is an oriented box hitbox. Field order matches the file record.
type UCMBox struct {
	Center   mgl32.Vec3
	Extents  mgl32.Vec3
	Rotation mgl32.Mat3
}

// UCM represents a parsed UCM model.
//
// Matrices are mgl32 column-major arrays. The file stores exactly those
// 16 (or 9) floats, so no transpose happens at the boundary.
type UCM struct {
	Version   uint32    // Opaque version tag
	Format    UCMFormat // Legacy or V2
	Name      string    // Model name (max 64 bytes)
	Frames    []UCMFrame
	Triangles []mesh.Triangle // Shared by all frames
	Tags      []UCMTag
	Spheres   []UCMSphere
	Boxes     []UCMBox
}

// NewUCM returns an empty V2 document.
func NewUCM(name string) *UCM {
	return &UCM{
		Version: UCMDefaultVersion,
		Format:  UCMFormatV2,
		Name:    name,
	}
}

// NewUCMFromCorners builds a document from per-frame corner streams, three
// corners per triangle. All frames must deduplicate to the same topology.
func NewUCMFromCorners(name string, cornerFrames [][]mesh.Vertex) (*UCM, error) {
	tables, tris, err := mesh.DeduplicateFrames(cornerFrames)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUCMConstraint, err)
	}

	u := NewUCM(name)
	u.Triangles = tris
	u.Frames = make([]UCMFrame, len(tables))
	for i, table := range tables {
		u.Frames[i].Vertices = table
	}
	return u, nil
}

// NumFrames returns the number of animation frames.
func (u *UCM) NumFrames() int {
	return len(u.Frames)
}

// NumVertices returns the vertex count of frame 0.
func (u *UCM) NumVertices() int {
	if len(u.Frames) == 0 {
		return 0
	}
	return len(u.Frames[0].Vertices)
}

// HasHitboxes returns true if the model carries any hitbox primitive.
func (u *UCM) HasHitboxes() bool {
	return len(u.Spheres) > 0 || len(u.Boxes) > 0
}

// SetFormat switches the on-disk variant. Converting to legacy drops all
// hitboxes, since that variant cannot store them.
func (u *UCM) SetFormat(f UCMFormat) {
	u.Format = f
	if f == UCMFormatLegacy {
		u.Spheres = nil
		u.Boxes = nil
	}
}

// AddTag appends a tag. transforms must hold one matrix per frame.
func (u *UCM) AddTag(name string, transforms ...mgl32.Mat4) {
	u.Tags = append(u.Tags, UCMTag{Name: name, Transforms: transforms})
}

// TagByName returns a tag by name, or nil if not found.
func (u *UCM) TagByName(name string) *UCMTag {
	for i := range u.Tags {
		if u.Tags[i].Name == name {
			return &u.Tags[i]
		}
	}
	return nil
}

// FrameCorners expands a frame into a flat per-corner stream, three corners
// per triangle.
func (u *UCM) FrameCorners(frame int) ([]mesh.Vertex, error) {
	if frame < 0 || frame >= len(u.Frames) {
		return nil, fmt.Errorf("frame %d out of range (have %d)", frame, len(u.Frames))
	}
	return mesh.Expand(u.Frames[frame].Vertices, u.Triangles)
}

// Bounds returns the axis-aligned bounding box of a frame's positions.
func (u *UCM) Bounds(frame int) (min, max mgl32.Vec3) {
	if frame < 0 || frame >= len(u.Frames) || len(u.Frames[frame].Vertices) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}

	verts := u.Frames[frame].Vertices
	min = verts[0].Position
	max = verts[0].Position
	for _, v := range verts[1:] {
		for i := 0; i < 3; i++ {
			if v.Position[i] < min[i] {
				min[i] = v.Position[i]
			}
			if v.Position[i] > max[i] {
				max[i] = v.Position[i]
			}
		}
	}
	return min, max
}

// Validate checks the invariants Encode relies on.
func (u *UCM) Validate() error {
	if len(u.Frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrUCMConstraint)
	}
	if len(u.Frames) > ucmMaxFrames {
		return fmt.Errorf("%w: %d frames exceed limit of %d", ErrUCMConstraint, len(u.Frames), ucmMaxFrames)
	}

	counts := []struct {
		what string
		n    int
	}{
		{"frames", len(u.Frames)},
		{"triangles", len(u.Triangles)},
		{"vertices", u.NumVertices()},
		{"tags", len(u.Tags)},
		{"spheres", len(u.Spheres)},
		{"boxes", len(u.Boxes)},
	}
	for _, c := range counts {
		if uint64(c.n) > math.MaxUint32 {
			return fmt.Errorf("%w: %d %s exceed 32-bit count", ErrUCMConstraint, c.n, c.what)
		}
	}

	numVertices := u.NumVertices()
	for i, f := range u.Frames {
		if len(f.Vertices) != numVertices {
			return fmt.Errorf("%w: frame %d has %d vertices, frame 0 has %d",
				ErrUCMConstraint, i, len(f.Vertices), numVertices)
		}
	}

	if err := mesh.CheckBounds(u.Triangles, numVertices); err != nil {
		return fmt.Errorf("%w: %w", ErrUCMConstraint, err)
	}

	for i, tag := range u.Tags {
		if len(tag.Transforms) != len(u.Frames) {
			return fmt.Errorf("%w: tag %d (%q) has %d transforms, want %d",
				ErrUCMConstraint, i, tag.Name, len(tag.Transforms), len(u.Frames))
		}
	}

	if u.Format == UCMFormatLegacy && u.HasHitboxes() {
		return fmt.Errorf("%w: legacy format cannot store %d spheres and %d boxes",
			ErrUCMConstraint, len(u.Spheres), len(u.Boxes))
	}

	return nil
}

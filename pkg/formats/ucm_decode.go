package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/ucmtool/pkg/encoding"
	"github.com/Faultbox/ucmtool/pkg/mesh"
)

// ucmCounts is the metadata block following the model name.
type ucmCounts struct {
	Frames    uint32
	Triangles uint32
	Vertices  uint32
	Tags      uint32
	Reserved  uint32 // Unused, written as 0
}

// ParseUCM parses UCM data from a byte slice.
func ParseUCM(data []byte) (*UCM, error) {
	return ParseUCMWithName(data, "")
}

// ParseUCMWithName parses UCM data, using fallbackName when the stored
// model name is empty.
func ParseUCMWithName(data []byte, fallbackName string) (*UCM, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: reading magic", ErrTruncatedUCMData)
	}
	if string(data[0:4]) != ucmMagic {
		return nil, ErrInvalidUCMMagic
	}
	if len(data) < ucmHeaderSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncatedUCMData, ucmHeaderSize, len(data))
	}

	u := &UCM{
		Version: binary.LittleEndian.Uint32(data[4:8]),
		Format:  UCMFormatV2,
		Name:    encoding.DecodeFixedString(data[8 : 8+ucmNameSize]),
	}
	if u.Name == "" {
		u.Name = fallbackName
	}

	r := bytes.NewReader(data[8+ucmNameSize:])

	var counts ucmCounts
	if err := binary.Read(r, binary.LittleEndian, &counts); err != nil {
		return nil, fmt.Errorf("%w: reading counts", ErrTruncatedUCMData)
	}
	if counts.Frames == 0 || counts.Frames > ucmMaxFrames {
		return nil, fmt.Errorf("%w: frame count %d", ErrMalformedUCMLayout, counts.Frames)
	}

	// Index buffer
	if err := need(r, "index buffer", ucmTriangleSize, counts.Triangles); err != nil {
		return nil, err
	}
	u.Triangles = make([]mesh.Triangle, counts.Triangles)
	if err := binary.Read(r, binary.LittleEndian, u.Triangles); err != nil {
		return nil, fmt.Errorf("%w: reading index buffer", ErrTruncatedUCMData)
	}
	if err := mesh.CheckBounds(u.Triangles, int(counts.Vertices)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedUCMLayout, err)
	}

	// Vertex buffers, one per frame
	if err := need(r, "vertex buffers", ucmVertexSize, counts.Frames, counts.Vertices); err != nil {
		return nil, err
	}
	u.Frames = make([]UCMFrame, counts.Frames)
	for i := range u.Frames {
		verts := make([]mesh.Vertex, counts.Vertices)
		if err := binary.Read(r, binary.LittleEndian, verts); err != nil {
			return nil, fmt.Errorf("%w: reading vertex buffer %d", ErrTruncatedUCMData, i)
		}
		u.Frames[i].Vertices = verts
	}

	// Tag names
	if err := need(r, "tag names", ucmTagNameSize, counts.Tags); err != nil {
		return nil, err
	}
	u.Tags = make([]UCMTag, counts.Tags)
	name := make([]byte, ucmTagNameSize)
	for i := range u.Tags {
		if _, err := r.Read(name); err != nil {
			return nil, fmt.Errorf("%w: reading tag name %d", ErrTruncatedUCMData, i)
		}
		u.Tags[i].Name = encoding.DecodeFixedString(name)
	}

	// Tag transforms, frame-major
	if err := need(r, "tag transforms", ucmTransformSize, counts.Frames, counts.Tags); err != nil {
		return nil, err
	}
	for i := range u.Tags {
		u.Tags[i].Transforms = make([]mgl32.Mat4, counts.Frames)
	}
	for f := 0; f < int(counts.Frames); f++ {
		for t := range u.Tags {
			if err := binary.Read(r, binary.LittleEndian, &u.Tags[t].Transforms[f]); err != nil {
				return nil, fmt.Errorf("%w: reading transform of tag %d frame %d", ErrTruncatedUCMData, t, f)
			}
		}
	}

	// Earth Squad files end here.
	if r.Len() < ucmHitboxHeadSize {
		u.Format = UCMFormatLegacy
		return u, nil
	}

	if err := parseUCMHitboxes(r, u); err != nil {
		return nil, err
	}

	return u, nil
}

// parseUCMHitboxes reads the sphere and box records of a V2 file.
func parseUCMHitboxes(r *bytes.Reader, u *UCM) error {
	var numSpheres, numBoxes uint32
	binary.Read(r, binary.LittleEndian, &numSpheres)
	binary.Read(r, binary.LittleEndian, &numBoxes)

	if err := need(r, "hitbox spheres", ucmSphereSize, numSpheres); err != nil {
		return err
	}
	if numSpheres > 0 {
		u.Spheres = make([]UCMSphere, numSpheres)
		if err := binary.Read(r, binary.LittleEndian, u.Spheres); err != nil {
			return fmt.Errorf("%w: reading hitbox spheres", ErrTruncatedUCMData)
		}
	}

	if err := need(r, "hitbox boxes", ucmBoxSize, numBoxes); err != nil {
		return err
	}
	if numBoxes > 0 {
		u.Boxes = make([]UCMBox, numBoxes)
		if err := binary.Read(r, binary.LittleEndian, u.Boxes); err != nil {
			return fmt.Errorf("%w: reading hitbox boxes", ErrTruncatedUCMData)
		}
	}

	return nil
}

// need fails with ErrTruncatedUCMData unless r holds recordSize bytes for
// every record counted by the product of counts. Sizes are checked before
// allocating, so bogus counts cannot force a large allocation.
func need(r *bytes.Reader, section string, recordSize uint64, counts ...uint32) error {
	n := recordSize
	for _, c := range counts {
		hi, lo := bits.Mul64(n, uint64(c))
		if hi != 0 {
			return fmt.Errorf("%w: %s size overflows", ErrTruncatedUCMData, section)
		}
		n = lo
	}
	if uint64(r.Len()) < n {
		return fmt.Errorf("%w: %s needs %d bytes, have %d", ErrTruncatedUCMData, section, n, r.Len())
	}
	return nil
}

// ParseUCMFile parses a UCM file from disk. Unnamed models take the file
// name without its .ucm extension.
func ParseUCMFile(path string) (*UCM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading UCM file: %w", err)
	}
	return ParseUCMWithName(data, ModelNameFromPath(path))
}

// ModelNameFromPath derives a model name from a file path.
func ModelNameFromPath(path string) string {
	base := filepath.Base(strings.ReplaceAll(path, "\\", "/"))
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".ucm") {
		base = base[:len(base)-len(ext)]
	}
	return base
}

package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/Faultbox/ucmtool/pkg/encoding"
)

// EncodedSize returns the number of bytes Encode produces.
func (u *UCM) EncodedSize() int {
	numFrames := len(u.Frames)
	size := ucmHeaderSize +
		len(u.Triangles)*ucmTriangleSize +
		numFrames*u.NumVertices()*ucmVertexSize +
		len(u.Tags)*ucmTagNameSize +
		numFrames*len(u.Tags)*ucmTransformSize
	if u.Format != UCMFormatLegacy {
		size += ucmHitboxHeadSize + len(u.Spheres)*ucmSphereSize + len(u.Boxes)*ucmBoxSize
	}
	return size
}

// Encode serializes the model. The document is validated and the whole
// buffer assembled in memory first; on error nothing is returned.
func (u *UCM) Encode() ([]byte, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	name, err := encoding.EncodeFixedString(u.Name, ucmNameSize)
	if err != nil {
		return nil, fmt.Errorf("%w: model name: %w", ErrUCMConstraint, err)
	}
	tagNames := make([][]byte, len(u.Tags))
	for i, tag := range u.Tags {
		tagNames[i], err = encoding.EncodeFixedString(tag.Name, ucmTagNameSize)
		if err != nil {
			return nil, fmt.Errorf("%w: tag %d name: %w", ErrUCMConstraint, i, err)
		}
	}

	buf := bytes.NewBuffer(make([]byte, 0, u.EncodedSize()))

	// Header
	buf.WriteString(ucmMagic)
	binary.Write(buf, binary.LittleEndian, u.Version)
	buf.Write(name)
	binary.Write(buf, binary.LittleEndian, ucmCounts{
		Frames:    uint32(len(u.Frames)),
		Triangles: uint32(len(u.Triangles)),
		Vertices:  uint32(u.NumVertices()),
		Tags:      uint32(len(u.Tags)),
	})

	// Index buffer
	binary.Write(buf, binary.LittleEndian, u.Triangles)

	// Vertex buffers
	for _, f := range u.Frames {
		binary.Write(buf, binary.LittleEndian, f.Vertices)
	}

	// Tag names, then transforms frame-major
	for _, field := range tagNames {
		buf.Write(field)
	}
	for f := range u.Frames {
		for _, tag := range u.Tags {
			binary.Write(buf, binary.LittleEndian, tag.Transforms[f])
		}
	}

	if u.Format == UCMFormatLegacy {
		return buf.Bytes(), nil
	}

	// Hitboxes
	binary.Write(buf, binary.LittleEndian, uint32(len(u.Spheres)))
	binary.Write(buf, binary.LittleEndian, uint32(len(u.Boxes)))
	binary.Write(buf, binary.LittleEndian, u.Spheres)
	binary.Write(buf, binary.LittleEndian, u.Boxes)

	return buf.Bytes(), nil
}

// WriteUCMFile encodes the model and writes it to disk.
func WriteUCMFile(path string, u *UCM) error {
	data, err := u.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing UCM file: %w", err)
	}
	return nil
}

// Package gltfexport converts UCM models to glTF 2.0 documents.
package gltfexport

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/ucmtool/pkg/formats"
)

// Options select which optional parts of a model are exported.
type Options struct {
	Tags     bool // Tag attachment points as child nodes
	Hitboxes bool // Collision primitives as child nodes
}

// DefaultOptions exports everything.
func DefaultOptions() Options {
	return Options{Tags: true, Hitboxes: true}
}

// Export builds a glTF document from a model. Frame 0 provides the base
// mesh; each further frame becomes a morph target holding position deltas.
// Node 0 is the model root; tags and hitboxes hang off it.
func Export(u *formats.UCM, opts Options) (*gltf.Document, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	doc := gltf.NewDocument()
	base := u.Frames[0].Vertices

	positions := make([][3]float32, len(base))
	normals := make([][3]float32, len(base))
	uvs := make([][2]float32, len(base))
	for i, v := range base {
		positions[i] = v.Position
		normals[i] = v.Normal
		uvs[i] = v.UV
	}

	indices := make([]uint32, 0, len(u.Triangles)*3)
	for _, tri := range u.Triangles {
		indices = append(indices, tri[0], tri[1], tri[2])
	}

	primitive := &gltf.Primitive{
		Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
		Attributes: map[string]uint32{
			"POSITION":   modeler.WritePosition(doc, positions),
			"NORMAL":     modeler.WriteNormal(doc, normals),
			"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
		},
	}

	var weights []float32
	for _, frame := range u.Frames[1:] {
		deltas := make([][3]float32, len(base))
		for i, v := range frame.Vertices {
			deltas[i] = v.Position.Sub(base[i].Position)
		}
		primitive.Targets = append(primitive.Targets, map[string]uint32{
			"POSITION": modeler.WritePosition(doc, deltas),
		})
		weights = append(weights, 0)
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       u.Name,
		Primitives: []*gltf.Primitive{primitive},
		Weights:    weights,
	})

	root := &gltf.Node{
		Name: u.Name,
		Mesh: gltf.Index(0),
	}
	doc.Nodes = append(doc.Nodes, root)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if opts.Tags {
		for _, tag := range u.Tags {
			root.Children = append(root.Children, addNode(doc, &gltf.Node{
				Name:   tag.Name,
				Matrix: tag.Transforms[0],
			}))
		}
	}

	if opts.Hitboxes {
		for i, s := range u.Spheres {
			root.Children = append(root.Children, addNode(doc, &gltf.Node{
				Name:        fmt.Sprintf("hitbox_sphere_%d", i),
				Translation: s.Center,
				Scale:       [3]float32{s.Radius, s.Radius, s.Radius},
				Extras:      map[string]any{"hitbox": "sphere", "radius": s.Radius},
			}))
		}
		for i, b := range u.Boxes {
			root.Children = append(root.Children, addNode(doc, &gltf.Node{
				Name:   fmt.Sprintf("hitbox_box_%d", i),
				Matrix: BoxMatrix(b),
				Extras: map[string]any{"hitbox": "box"},
			}))
		}
	}

	return doc, nil
}

// BoxMatrix maps the unit cube [-1,1]^3 onto the box volume:
// translate(center) * rotation * scale(extents).
func BoxMatrix(b formats.UCMBox) mgl32.Mat4 {
	return mgl32.Translate3D(b.Center[0], b.Center[1], b.Center[2]).
		Mul4(b.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(b.Extents[0], b.Extents[1], b.Extents[2]))
}

func addNode(doc *gltf.Document, n *gltf.Node) uint32 {
	doc.Nodes = append(doc.Nodes, n)
	return uint32(len(doc.Nodes) - 1)
}

// Write encodes the document as binary glTF (.glb) or as JSON with the
// buffers embedded as data URIs.
func Write(w io.Writer, doc *gltf.Document, binary bool) error {
	if !binary {
		for _, b := range doc.Buffers {
			b.EmbeddedResource()
		}
	}

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = binary
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encoding glTF: %w", err)
	}
	return nil
}

// IsBinaryPath reports whether a path names a .glb file.
func IsBinaryPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".glb")
}

// WriteFile writes the document to path. binary selects .glb output.
func WriteFile(path string, doc *gltf.Document, binary bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating glTF file: %w", err)
	}

	if err := Write(f, doc, binary); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

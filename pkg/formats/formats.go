// Package formats reads and writes UCM binary model files.
//
// A UCM file holds an animated triangle mesh (one vertex table per frame,
// one shared index buffer), named tags with one transform per frame, and,
// in the V2 variant, static collision spheres and boxes. All values are
// little-endian.
package formats

// Package kernel defines the abstract solid-modeling interface used as a
// mesh source for CAM jobs. Implementations (sdfx, manifold) provide
// primitives, boolean operations, and tessellation behind this interface,
// so jobs and tests can obtain triangle meshes without any file parsing.
package kernel

import "github.com/chazu/swarf/pkg/geom"

// Solid is an opaque handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract solid-modeling interface. Implementations
// provide solid construction behind this interface; swapping backends
// does not change anything downstream of the produced mesh.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*geom.Mesh, error)
}

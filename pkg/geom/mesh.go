package geom

// DegenerateArea is the area threshold below which a triangle is treated
// as degenerate and skipped by samplers and slicers.
const DegenerateArea = 1e-12

// Triangle is a single mesh facet: three vertices and a face normal.
// The normal may be supplied by the mesh source; FaceNormal falls back
// to the computed geometric normal when the stored one is zero.
type Triangle struct {
	Normal Vec3 `json:"normal"`
	V0     Vec3 `json:"v0"`
	V1     Vec3 `json:"v1"`
	V2     Vec3 `json:"v2"`
}

// MinZ returns the lowest Z of the three vertices.
func (t Triangle) MinZ() float64 {
	z := t.V0.Z
	if t.V1.Z < z {
		z = t.V1.Z
	}
	if t.V2.Z < z {
		z = t.V2.Z
	}
	return z
}

// MaxZ returns the highest Z of the three vertices.
func (t Triangle) MaxZ() float64 {
	z := t.V0.Z
	if t.V1.Z > z {
		z = t.V1.Z
	}
	if t.V2.Z > z {
		z = t.V2.Z
	}
	return z
}

// Area returns the triangle's surface area.
func (t Triangle) Area() float64 {
	return t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Length() / 2
}

// IsDegenerate reports whether the triangle has (near-)zero area.
func (t Triangle) IsDegenerate() bool {
	return t.Area() < DegenerateArea
}

// FaceNormal returns the stored normal, or the unit geometric normal
// computed from the vertex winding when no normal was stored.
func (t Triangle) FaceNormal() Vec3 {
	if t.Normal.Length() > 1e-12 {
		return t.Normal.Normalized()
	}
	return t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Normalized()
}

// BoundingBox is an axis-aligned box in 3-D space.
type BoundingBox struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoundsOf computes the bounding box of a triangle set. It returns
// ok=false for an empty set.
func BoundsOf(tris []Triangle) (BoundingBox, bool) {
	if len(tris) == 0 {
		return BoundingBox{}, false
	}
	bb := BoundingBox{
		Min: tris[0].V0,
		Max: tris[0].V0,
	}
	for _, t := range tris {
		for _, v := range [3]Vec3{t.V0, t.V1, t.V2} {
			bb.Min.X = min(bb.Min.X, v.X)
			bb.Min.Y = min(bb.Min.Y, v.Y)
			bb.Min.Z = min(bb.Min.Z, v.Z)
			bb.Max.X = max(bb.Max.X, v.X)
			bb.Max.Y = max(bb.Max.Y, v.Y)
			bb.Max.Z = max(bb.Max.Z, v.Z)
		}
	}
	return bb, true
}

// Mesh is an unordered collection of triangles plus a cached bounding box.
// Meshes are constructed once from a mesh source and treated as immutable
// for the duration of a job. No connectivity structure is kept; all
// downstream queries are geometric.
type Mesh struct {
	Triangles []Triangle `json:"triangles"`
}

// NewMesh builds a mesh from a triangle slice. The slice is retained,
// not copied.
func NewMesh(tris []Triangle) *Mesh {
	return &Mesh{Triangles: tris}
}

// Bounds returns the axis-aligned bounding box of the mesh.
// ok is false for an empty mesh. A nil mesh is empty.
func (m *Mesh) Bounds() (BoundingBox, bool) {
	if m == nil {
		return BoundingBox{}, false
	}
	return BoundsOf(m.Triangles)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Triangles)
}

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Triangles) == 0
}

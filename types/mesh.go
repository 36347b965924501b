package types

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a point in 3D with no unit or frame attached
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) R3() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

func (v Vec3) String() string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}

// Triangle holds three vertices in the order they were read
type Triangle [3]Vec3

func (t Triangle) edges() (e1, e2 r3.Vec) {
	e1 = r3.Sub(t[1].R3(), t[0].R3())
	e2 = r3.Sub(t[2].R3(), t[0].R3())
	return
}

// Area is half the magnitude of the cross product of two edges
func (t Triangle) Area() float64 {
	e1, e2 := t.edges()
	return 0.5 * r3.Norm(r3.Cross(e1, e2))
}

// Normal returns the unit normal implied by the right hand rule on the
// vertex order. A degenerate triangle returns the zero vector.
func (t Triangle) Normal() r3.Vec {
	e1, e2 := t.edges()
	n := r3.Cross(e1, e2)
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Mesh is a triangle soup in source order
type Mesh struct {
	Triangles []Triangle
}

func (m Mesh) NumTriangles() int { return len(m.Triangles) }

func (m Mesh) IsEmpty() bool { return len(m.Triangles) == 0 }

// BoundingBox returns the axis aligned box around every vertex, ok is false
// for an empty mesh.
func (m Mesh) BoundingBox() (box r3.Box, ok bool) {
	if m.IsEmpty() {
		return
	}
	first := m.Triangles[0][0].R3()
	box.Min, box.Max = first, first
	for _, tri := range m.Triangles {
		for _, v := range tri {
			box.Min.X = min(box.Min.X, v.X)
			box.Min.Y = min(box.Min.Y, v.Y)
			box.Min.Z = min(box.Min.Z, v.Z)
			box.Max.X = max(box.Max.X, v.X)
			box.Max.Y = max(box.Max.Y, v.Y)
			box.Max.Z = max(box.Max.Z, v.Z)
		}
	}
	return box, true
}

func (m Mesh) SurfaceArea() (area float64) {
	for _, tri := range m.Triangles {
		area += tri.Area()
	}
	return
}

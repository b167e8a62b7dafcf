package graph

import "github.com/go-gl/mathgl/mgl64"

// Transform is a node's placement relative to its parent. Rotation holds
// Euler angles in radians, applied Z*Y*X to match the geometry kernel.
type Transform struct {
	Position mgl64.Vec3 `json:"position"`
	Rotation mgl64.Vec3 `json:"rotation"`
	Scale    mgl64.Vec3 `json:"scale"`
}

// Identity returns the transform that leaves a node where its parent is.
func Identity() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// Matrix returns T * Rz * Ry * Rx * S.
func (t Transform) Matrix() mgl64.Mat4 {
	m := mgl64.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	m = m.Mul4(mgl64.HomogRotate3DZ(t.Rotation[2]))
	m = m.Mul4(mgl64.HomogRotate3DY(t.Rotation[1]))
	m = m.Mul4(mgl64.HomogRotate3DX(t.Rotation[0]))
	return m.Mul4(mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Compose returns t with other's offsets added: positions and rotations sum,
// scales multiply. Used to layer animation offsets over a base transform.
func (t Transform) Compose(other Transform) Transform {
	return Transform{
		Position: t.Position.Add(other.Position),
		Rotation: t.Rotation.Add(other.Rotation),
		Scale: mgl64.Vec3{
			t.Scale[0] * other.Scale[0],
			t.Scale[1] * other.Scale[1],
			t.Scale[2] * other.Scale[2],
		},
	}
}

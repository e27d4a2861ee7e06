package geom

import "math"

// Quaternion is a rotation value type. Composition is by multiplication and
// is non-commutative; rotations accumulate right-to-left, so q2.Mul(q1)
// applies q1 first.
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity returns the identity rotation.
func Identity() Quaternion {
	return Quaternion{W: 1}
}

// FromAxisAngle builds the rotation of angle radians about axis.
// The axis is normalized internally; a zero axis yields identity.
func FromAxisAngle(axis Vector3, angle float64) Quaternion {
	u := axis.Normalize()
	if u == (Vector3{}) {
		return Identity()
	}
	half := angle * 0.5
	s := math.Sin(half)
	return Quaternion{
		W: math.Cos(half),
		X: u.X * s,
		Y: u.Y * s,
		Z: u.Z * s,
	}
}

// Normalize returns the unit quaternion. A degenerate (zero-magnitude)
// quaternion normalizes to identity.
func (q Quaternion) Normalize() Quaternion {
	m := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if m == 0 {
		return Identity()
	}
	return Quaternion{q.W / m, q.X / m, q.Y / m, q.Z / m}
}

// Conjugate returns the conjugate, which is the inverse for unit quaternions.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q.W, -q.X, -q.Y, -q.Z}
}

// Mul returns the Hamilton product q·o.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Rotate rotates vector v by this quaternion (q·v·q*).
func (q Quaternion) Rotate(v Vector3) Vector3 {
	u := Vector3{q.X, q.Y, q.Z}
	s := q.W

	t1 := u.Scale(2 * u.Dot(v))
	t2 := v.Scale(s*s - u.Dot(u))
	t3 := u.Cross(v).Scale(2 * s)

	return t1.Add(t2).Add(t3)
}

// AngularDistance returns the angle in [0, π] between two unit quaternions.
func (q Quaternion) AngularDistance(o Quaternion) float64 {
	dot := q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
	if dot < 0 {
		dot = -dot
	}
	if dot > 1 {
		dot = 1
	}
	return 2 * math.Acos(dot)
}

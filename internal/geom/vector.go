// Package geom provides the 3D/4D vector and quaternion value types used by
// the wave kernel. Numerical degeneracy is absorbed, never signaled: zero
// vectors normalize to zero, degenerate quaternions normalize to identity.
package geom

import "math"

// Vector3 is a 3D vector value type.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v − o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Magnitude returns |v|.
func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// MagnitudeSq returns |v|² without the square root.
func (v Vector3) MagnitudeSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns the unit vector in the direction of v.
// The zero vector normalizes to zero.
func (v Vector3) Normalize() Vector3 {
	m := v.Magnitude()
	if m == 0 {
		return Vector3{}
	}
	return Vector3{v.X / m, v.Y / m, v.Z / m}
}

// Vector4 is a 4D vector. The kernel uses W as the time-like component of a
// spacetime sample position, and as the scalar channel of a field force.
type Vector4 struct {
	X, Y, Z, W float64
}

// Spatial returns the 3D projection of the vector.
func (v Vector4) Spatial() Vector3 {
	return Vector3{v.X, v.Y, v.Z}
}

// Add returns v + o.
func (v Vector4) Add(o Vector4) Vector4 {
	return Vector4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W}
}

// Scale returns v scaled by s.
func (v Vector4) Scale(s float64) Vector4 {
	return Vector4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Magnitude returns |v|.
func (v Vector4) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)
}

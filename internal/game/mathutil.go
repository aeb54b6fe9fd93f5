package game

import "math"

// --- Vectors ---

// Vec2 is a 2D vector in playfield pixels. Methods never mutate the receiver.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Len returns the vector magnitude.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// LenSq returns the squared magnitude (cheap comparison form).
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Dot returns the dot product with o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Dist returns the distance from v to o.
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(o.X-v.X, o.Y-v.Y) }

// Normalized returns a unit vector in the same direction, or the zero
// vector when the input is (near) zero length.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l < 1e-9 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rotated returns v rotated by angle radians (counter-clockwise in screen
// coordinates, where +Y points down).
func (v Vec2) Rotated(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// --- Scalar helpers ---

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

// lerp linearly interpolates from a to b by t in [0,1].
func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// pointToSegmentDist returns the shortest distance from point p to the
// segment ab. Degenerate (zero-length) segments fall back to point distance.
func pointToSegmentDist(p, a, b Vec2) float64 {
	d := b.Sub(a)
	lenSq := d.LenSq()
	if lenSq < 1e-9 {
		return p.Dist(a)
	}
	t := clamp01(p.Sub(a).Dot(d) / lenSq)
	return p.Dist(a.Add(d.Scale(t)))
}

// steerToward blends velocity vel toward the direction of target-from by
// strength*dt while preserving speed. Used for orb homing and for enemies
// that bend projectile paths.
func steerToward(vel, from, target Vec2, strength, dt float64) Vec2 {
	speed := vel.Len()
	if speed < 1e-9 {
		return vel
	}
	want := target.Sub(from).Normalized()
	if want == (Vec2{}) {
		return vel
	}
	t := clamp01(strength * dt)
	blended := Vec2{
		lerp(vel.X/speed, want.X, t),
		lerp(vel.Y/speed, want.Y, t),
	}.Normalized()
	if blended == (Vec2{}) {
		return vel
	}
	return blended.Scale(speed)
}

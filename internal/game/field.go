package game

// laneCount is fixed: enemies descend in six vertical lanes.
const laneCount = 6

const (
	defaultFieldW = 720  // px
	defaultFieldH = 1080 // px

	safetyLineMargin = 70 // px above the bottom edge; crossing it is a breach
	cannonMargin     = 34 // px above the bottom edge; launch origin
	spawnRowY        = -24.0
	spawnJitterX     = 10.0 // px of lateral scatter on spawn
)

// Field is the playfield geometry. It is a plain value; the session holds
// one for the run and hands it to anything that needs coordinates.
type Field struct {
	W float64
	H float64
}

// DefaultField returns the standard portrait playfield.
func DefaultField() Field {
	return Field{W: defaultFieldW, H: defaultFieldH}
}

// LanePad is the horizontal padding before lane 1 and after lane 6.
func (f Field) LanePad() float64 {
	return f.W / 6
}

// LaneX maps a 1-indexed lane to its spawn x coordinate. Lanes outside
// [1, laneCount] are clamped rather than rejected.
func (f Field) LaneX(lane int) float64 {
	if lane < 1 {
		lane = 1
	}
	if lane > laneCount {
		lane = laneCount
	}
	pad := f.LanePad()
	step := (f.W - 2*pad) / float64(laneCount-1)
	return pad + step*float64(lane-1)
}

// SafetyY is the y coordinate of the breach line.
func (f Field) SafetyY() float64 {
	return f.H - safetyLineMargin
}

// CannonPos is the orb launch origin at the bottom centre.
func (f Field) CannonPos() Vec2 {
	return Vec2{X: f.W / 2, Y: f.H - cannonMargin}
}

// Contains reports whether p lies inside the playfield rectangle.
func (f Field) Contains(p Vec2) bool {
	return p.X >= 0 && p.X <= f.W && p.Y >= 0 && p.Y <= f.H
}

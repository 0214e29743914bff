package scene

import "math"

// =============================================================================
// Rect - Axis-Aligned Bounding Rectangle
// =============================================================================

// Rect is an axis-aligned bounding rectangle in figure coordinates.
// X and Y locate the lower-left corner; W and H extend right and up.
// Units are physical inches throughout the scene model.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Left returns the minimum x coordinate.
func (r Rect) Left() float64 { return r.X }

// Right returns the maximum x coordinate.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the minimum y coordinate.
func (r Rect) Bottom() float64 { return r.Y }

// Top returns the maximum y coordinate.
func (r Rect) Top() float64 { return r.Y + r.H }

// Area returns the rectangle area. Degenerate rectangles have zero area.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Valid reports whether the rectangle has strictly positive area.
func (r Rect) Valid() bool { return r.W > 0 && r.H > 0 }

// Intersects reports whether r and o overlap with positive area.
// Two axis-aligned rectangles intersect iff max(left1,left2) < min(right1,right2)
// and the symmetric vertical condition holds. Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return math.Max(r.Left(), o.Left()) < math.Min(r.Right(), o.Right()) &&
		math.Max(r.Bottom(), o.Bottom()) < math.Min(r.Top(), o.Top())
}

// Intersection returns the overlapping region of r and o.
// The zero Rect is returned when the rectangles do not intersect.
func (r Rect) Intersection(o Rect) Rect {
	left := math.Max(r.Left(), o.Left())
	right := math.Min(r.Right(), o.Right())
	bottom := math.Max(r.Bottom(), o.Bottom())
	top := math.Min(r.Top(), o.Top())

	if left >= right || bottom >= top {
		return Rect{}
	}
	return Rect{X: left, Y: bottom, W: right - left, H: top - bottom}
}

// Union returns the smallest rectangle covering both r and o.
// If either rectangle is degenerate, the other is returned unchanged.
func (r Rect) Union(o Rect) Rect {
	if !r.Valid() {
		return o
	}
	if !o.Valid() {
		return r
	}

	left := math.Min(r.Left(), o.Left())
	right := math.Max(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	top := math.Max(r.Top(), o.Top())

	return Rect{X: left, Y: bottom, W: right - left, H: top - bottom}
}

// Contains reports whether o lies entirely within r.
// Shared edges count as contained.
func (r Rect) Contains(o Rect) bool {
	return o.Left() >= r.Left() && o.Right() <= r.Right() &&
		o.Bottom() >= r.Bottom() && o.Top() <= r.Top()
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// OverlapFraction returns the intersection area divided by the area of r.
// This is the fraction of r covered by o; zero when r is degenerate.
func (r Rect) OverlapFraction(o Rect) float64 {
	area := r.Area()
	if area == 0 {
		return 0
	}
	return r.Intersection(o).Area() / area
}

// =============================================================================
// Range - Axis Limits
// =============================================================================

// Range is a closed interval used for panel axis limits.
type Range struct {
	Min float64 `json:"min" bson:"min"`
	Max float64 `json:"max" bson:"max"`
}

// Contains reports whether v lies within the range (inclusive).
// An unset range (Min == Max == 0) contains every value, so scenes
// without declared axis limits never exclude reference lines.
func (rg Range) Contains(v float64) bool {
	if rg.Min == 0 && rg.Max == 0 {
		return true
	}
	return v >= rg.Min && v <= rg.Max
}

package deploy

import "math"

// Surface is the line a falling block lands on.
type Surface struct {
	Y         float64 // height of the surface (smaller is higher)
	CenterX   float64
	HalfWidth float64
}

// CatchSurface returns the current catch surface. With an empty stack it is
// the platform. Otherwise it sits on top of the stack and takes its width
// and center from the topmost stacked block, so a drifting stack stays
// catchable where it actually is.
func CatchSurface(s State) Surface {
	p := s.Platform
	if len(s.Stack) == 0 {
		return Surface{Y: p.Y, CenterX: p.X, HalfWidth: p.Width / 2}
	}
	top := s.Stack[len(s.Stack)-1]
	return Surface{
		Y:         p.Y - s.StackHeight(),
		CenterX:   p.X + top.DX,
		HalfWidth: top.W / 2,
	}
}

// Catches reports whether b has reached the surface within its width.
func (sf Surface) Catches(b FallingBlock) bool {
	return b.Bottom() >= sf.Y && math.Abs(b.X-sf.CenterX) <= sf.HalfWidth
}

// Catches reports whether b lands on the current catch surface of s.
func Catches(b FallingBlock, s State) bool {
	return CatchSurface(s).Catches(b)
}

// OffField reports whether b has fallen completely below the field.
func OffField(b FallingBlock, fieldH float64) bool {
	return b.Top() > fieldH
}

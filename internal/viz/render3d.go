package viz

import (
	"math"

	"github.com/san-kum/mosaicfx/internal/anim"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Camera orbits the origin at a fixed distance.
type Camera struct {
	Distance   float64
	Near       float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 6, Near: 0.1, RotX: 0.65, RotY: 0.35, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX = math.Max(0, math.Min(math.Pi/2, c.RotX+a)) }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(4, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.25, c.Zoom/1.2) }

func (c *Camera) rotate(p Vec3) Vec3 {
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// Project maps p onto a sw x sh dot surface with perspective. It returns the
// dot position, the depth, and whether the dot lands on the surface.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.rotate(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	unit := float64(min(sw, sh)) / 2.5
	sx := int(rot.X*scale*unit) + sw/2
	sy := int(-rot.Y*scale*unit) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// RenderInstances plots every instance as a dot. Positions are normalised by
// half so the mosaic spans [-1, 1]; heights are multiplied by lift on top.
func RenderInstances(c *Canvas, tr []anim.Transform, half, lift float64, cam *Camera) {
	if c == nil || cam == nil || half <= 0 {
		return
	}
	sw, sh := c.Dots()
	for _, t := range tr {
		p := Vec3{float64(t.X) / half, float64(t.Y) / half * lift, float64(t.Z) / half}
		if x, y, _, ok := cam.Project(p, sw, sh); ok {
			c.Set(x, y)
		}
	}
}

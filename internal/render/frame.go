package render

import "math"

// BBox is a longitude/latitude envelope in degrees.
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// TexasBBox frames the whole state with a small margin.
var TexasBBox = BBox{MinLon: -106.8, MinLat: 25.7, MaxLon: -93.4, MaxLat: 36.6}

// Frame maps lon/lat onto a pixel rectangle through a projection, keeping the
// aspect ratio and centering the framed box.
type Frame struct {
	proj          *LCC
	scale         float64
	minX, maxY    float64
	offX, offY    float64
	left, top     int
	width, height int
}

// edgeSamples is how finely each bbox edge is walked; projected edges curve.
const edgeSamples = 24

// NewFrame fits box into the pixel rectangle (left, top, width, height).
func NewFrame(proj *LCC, box BBox, left, top, width, height int) *Frame {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	visit := func(lon, lat float64) {
		x, y := proj.Project(lon, lat)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for i := 0; i <= edgeSamples; i++ {
		f := float64(i) / edgeSamples
		lon := box.MinLon + f*(box.MaxLon-box.MinLon)
		lat := box.MinLat + f*(box.MaxLat-box.MinLat)
		visit(lon, box.MinLat)
		visit(lon, box.MaxLat)
		visit(box.MinLon, lat)
		visit(box.MaxLon, lat)
	}

	fr := &Frame{proj: proj, minX: minX, maxY: maxY, left: left, top: top, width: width, height: height}
	dx, dy := maxX-minX, maxY-minY
	if dx <= 0 || dy <= 0 {
		fr.scale = 1
		return fr
	}
	fr.scale = math.Min(float64(width)/dx, float64(height)/dy)
	fr.offX = (float64(width) - dx*fr.scale) / 2
	fr.offY = (float64(height) - dy*fr.scale) / 2
	return fr
}

// Pixel returns the canvas position of a lon/lat point. Y grows downwards.
func (fr *Frame) Pixel(lon, lat float64) (int, int) {
	x, y := fr.proj.Project(lon, lat)
	px := float64(fr.left) + fr.offX + (x-fr.minX)*fr.scale
	py := float64(fr.top) + fr.offY + (fr.maxY-y)*fr.scale
	return int(math.Round(px)), int(math.Round(py))
}

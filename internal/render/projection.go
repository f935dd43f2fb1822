package render

// WGS-84 → Lambert Conformal Conic. The map uses the Texas Centric LCC
// parameters (EPSG:3081, Texas Statewide Mapping System) so the whole state
// keeps its familiar shape.

import "math"

// LCC holds the derived constants of one Lambert Conformal Conic projection
// on the GRS80 ellipsoid, output in metres.
type LCC struct {
	falseEasting  float64
	falseNorthing float64
	lon0          float64 // radians
	e             float64
	n             float64
	f             float64
	rho0          float64
}

const (
	semiMajorM = 6378137.0        // GRS80 semi-major axis (metres)
	e2GRS80    = 0.00669438002290 // GRS80 eccentricity squared
)

// NewLCC derives the projection constants from the latitude of origin, the
// central meridian and two standard parallels, all in degrees.
func NewLCC(phi0Deg, lon0Deg, phi1Deg, phi2Deg, falseEasting, falseNorthing float64) *LCC {
	phi0 := phi0Deg * math.Pi / 180
	phi1 := phi1Deg * math.Pi / 180
	phi2 := phi2Deg * math.Pi / 180
	e := math.Sqrt(e2GRS80)

	m := func(phi float64) float64 {
		return math.Cos(phi) / math.Sqrt(1-e2GRS80*math.Sin(phi)*math.Sin(phi))
	}
	t := func(phi float64) float64 {
		return math.Tan(math.Pi/4-phi/2) / math.Pow((1-e*math.Sin(phi))/(1+e*math.Sin(phi)), e/2)
	}

	m1, m2 := m(phi1), m(phi2)
	t0, t1, t2 := t(phi0), t(phi1), t(phi2)

	p := &LCC{
		falseEasting:  falseEasting,
		falseNorthing: falseNorthing,
		lon0:          lon0Deg * math.Pi / 180,
		e:             e,
	}
	p.n = math.Log(m1/m2) / math.Log(t1/t2)
	p.f = semiMajorM * m1 / (p.n * math.Pow(t1, p.n))
	p.rho0 = p.f * math.Pow(t0, p.n)
	return p
}

// TexasCentric is EPSG:3081.
func TexasCentric() *LCC {
	return NewLCC(31+10.0/60, -100, 27+25.0/60, 34+55.0/60, 1000000, 1000000)
}

// Project converts longitude/latitude in decimal degrees to easting/northing
// in metres.
func (p *LCC) Project(lonDeg, latDeg float64) (x, y float64) {
	phi := latDeg * math.Pi / 180
	lambda := lonDeg * math.Pi / 180

	t := math.Tan(math.Pi/4-phi/2) / math.Pow((1-p.e*math.Sin(phi))/(1+p.e*math.Sin(phi)), p.e/2)
	rho := p.f * math.Pow(t, p.n)
	theta := p.n * (lambda - p.lon0)

	x = rho*math.Sin(theta) + p.falseEasting
	y = p.rho0 - rho*math.Cos(theta) + p.falseNorthing
	return x, y
}

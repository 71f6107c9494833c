package tabulate

import "math"

//Normalization constants of the real spherical harmonics, orthonormal
//over the sphere (Blanco, Florez and Bermejo, J Mol Struct THEOCHEM 419
//(1997) 19). The sign convention leaves px, dxy, etc. with a positive
//leading coefficient.
var (
	c00 = 0.5 / math.Sqrt(math.Pi)
	c1  = math.Sqrt(3 / (4 * math.Pi))
	c2a = 0.5 * math.Sqrt(15/math.Pi)
	c2b = 0.25 * math.Sqrt(5/math.Pi)
	c2c = 0.25 * math.Sqrt(15/math.Pi)
	c3a = 0.25 * math.Sqrt(35/(2*math.Pi))
	c3b = 0.5 * math.Sqrt(105/math.Pi)
	c3c = 0.25 * math.Sqrt(21/(2*math.Pi))
	c3d = 0.25 * math.Sqrt(7/math.Pi)
	c3e = 0.25 * math.Sqrt(105/math.Pi)
	c4a = 0.75 * math.Sqrt(35/math.Pi)
	c4b = 0.75 * math.Sqrt(35/(2*math.Pi))
	c4c = 0.75 * math.Sqrt(5/math.Pi)
	c4d = 0.75 * math.Sqrt(5/(2*math.Pi))
	c4e = 3.0 / 16.0 * math.Sqrt(1/math.Pi)
	c4f = 3.0 / 8.0 * math.Sqrt(5/math.Pi)
	c4g = 3.0 / 16.0 * math.Sqrt(35/math.Pi)
)

// xlm returns r^l times the real spherical harmonic of degree l and order
// m, i.e. the real solid harmonic: a plain polynomial in the Cartesian
// offset, with no division by r and no inverse trigonometry, so it is
// exact at the origin. r2 is x*x+y*y+z*z, which callers already have.
// l must be within 0..4 and m within -l..l; anything else panics, as the
// parser never produces such shells.
func xlm(l, m int, x, y, z, r2 float64) float64 {
	switch l {
	case 0:
		return c00
	case 1:
		switch m {
		case -1:
			return c1 * y
		case 0:
			return c1 * z
		case 1:
			return c1 * x
		}
	case 2:
		switch m {
		case -2:
			return c2a * x * y
		case -1:
			return c2a * y * z
		case 0:
			return c2b * (3*z*z - r2)
		case 1:
			return c2a * x * z
		case 2:
			return c2c * (x*x - y*y)
		}
	case 3:
		switch m {
		case -3:
			return c3a * y * (3*x*x - y*y)
		case -2:
			return c3b * x * y * z
		case -1:
			return c3c * y * (5*z*z - r2)
		case 0:
			return c3d * z * (5*z*z - 3*r2)
		case 1:
			return c3c * x * (5*z*z - r2)
		case 2:
			return c3e * z * (x*x - y*y)
		case 3:
			return c3a * x * (x*x - 3*y*y)
		}
	case 4:
		x2, y2, z2 := x*x, y*y, z*z
		switch m {
		case -4:
			return c4a * x * y * (x2 - y2)
		case -3:
			return c4b * y * z * (3*x2 - y2)
		case -2:
			return c4c * x * y * (7*z2 - r2)
		case -1:
			return c4d * y * z * (7*z2 - 3*r2)
		case 0:
			return c4e * (35*z2*z2 - 30*z2*r2 + 3*r2*r2)
		case 1:
			return c4d * x * z * (7*z2 - 3*r2)
		case 2:
			return c4f * (x2 - y2) * (7*z2 - r2)
		case 3:
			return c4b * x * z * (x2 - 3*y2)
		case 4:
			return c4g * (x2*x2 - 6*x2*y2 + y2*y2)
		}
	}
	panic("gomolden/tabulate: harmonic degree or order out of range")
}

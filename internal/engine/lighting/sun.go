// Package lighting provides light direction utilities.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/umbra/pkg/math"
)

// SunDirection converts sun angles in degrees to a light direction.
// Longitude is rotation around the Z (up) axis measured from +X, latitude is
// elevation above the horizon. The result is normalized and points from the
// scene towards the sun.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lonRad := longitude * math32.Pi / 180
	latRad := latitude * math32.Pi / 180

	sinLon, cosLon := math32.Sincos(lonRad)
	sinLat, cosLat := math32.Sincos(latRad)

	return math.Vec3{
		X: cosLat * cosLon,
		Y: cosLat * sinLon,
		Z: sinLat,
	}
}

// Direction returns explicit when it is non-zero and the sun direction for
// the given angles otherwise.
func Direction(explicit [3]float32, longitude, latitude float32) math.Vec3 {
	d := math.Vec3{X: explicit[0], Y: explicit[1], Z: explicit[2]}
	if d != (math.Vec3{}) {
		return d.Normalize()
	}
	return SunDirection(longitude, latitude)
}

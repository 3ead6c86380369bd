package shadow

import (
	"math/rand/v2"
	"slices"

	"github.com/chewxy/math32"

	"github.com/Faultbox/umbra/pkg/math"
)

// DefaultRejectionLimit is the number of candidates tried around an active
// point before it is retired.
const DefaultRejectionLimit = 30

// PoissonDisk generates up to n points with pairwise distance of at least
// radius by dart throwing around an active set, starting from the origin.
// Candidates are drawn at a uniform angle and a distance in
// [radius, 2·radius] from a random active point; a point whose k candidates
// all fail is retired from the active set but stays in the result.
//
// Fewer than n points are returned when the active set runs dry. The
// result is translated so its centroid is the origin.
func PoissonDisk(rng *rand.Rand, n int, radius float32, k int) []math.Vec2 {
	if n <= 0 {
		return nil
	}
	r2 := radius * radius

	points := make([]math.Vec2, 1, n)
	active := []math.Vec2{points[0]}
	var centroid math.Vec2

	for len(points) < n && len(active) > 0 {
		i := rng.IntN(len(active))
		s := active[i]

		accepted := false
		for j := 0; j < k; j++ {
			theta := 2 * math32.Pi * rng.Float32()
			candidate := s.Polar(radius*(1+rng.Float32()), theta)
			if !farFromAll(points, candidate, r2) {
				continue
			}

			points = append(points, candidate)
			active = append(active, candidate)
			centroid = centroid.Add(candidate.Sub(centroid).Scale(1 / float32(len(points))))
			accepted = true
			break
		}

		if !accepted {
			active = slices.Delete(active, i, i+1)
		}
	}

	for i := range points {
		points[i] = points[i].Sub(centroid)
	}
	return points
}

// farFromAll reports whether p is at least sqrt(r2) away from every point.
func farFromAll(points []math.Vec2, p math.Vec2, r2 float32) bool {
	for _, q := range points {
		if q.DistanceSq(p) < r2 {
			return false
		}
	}
	return true
}

// KernelData flattens a kernel to x0, y0, x1, y1, ... for uniform and
// texture uploads.
func KernelData(kernel []math.Vec2) []float32 {
	data := make([]float32, 0, 2*len(kernel))
	for _, p := range kernel {
		data = append(data, p.X, p.Y)
	}
	return data
}

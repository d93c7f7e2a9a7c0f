package haversine

import (
	"math"

	"go.jacobcolvin.com/haversine/probe"
)

// EarthRadius is the radius, in kilometers, used for distances.
const EarthRadius = 6372.8

// pairSize is the in-memory size of a [CoordPair].
const pairSize = 4 * 8

// CoordPair is two points on a sphere, in degrees.
type CoordPair struct {
	Lat0 float64 `json:"lat0"`
	Lon0 float64 `json:"lon0"`
	Lat1 float64 `json:"lat1"`
	Lon1 float64 `json:"lon1"`
}

// Haversine returns the great-circle distance between the two points of p on
// a sphere of the given radius.
func Haversine(p CoordPair, radius float64) float64 {
	dLat := radians(p.Lat1 - p.Lat0)
	dLon := radians(p.Lon1 - p.Lon0)
	lat0 := radians(p.Lat0)
	lat1 := radians(p.Lat1)

	a := square(math.Sin(dLat/2)) + math.Cos(lat0)*math.Cos(lat1)*square(math.Sin(dLon/2))
	c := 2 * math.Asin(math.Sqrt(a))

	return radius * c
}

// Average returns the mean [Haversine] distance of pairs on the earth, or 0
// for no pairs.
func Average(pairs []CoordPair, s *probe.Session) float64 {
	defer s.Block("Process Haversine", 0).End()

	if len(pairs) == 0 {
		return 0
	}

	s.RecordBytes(uint64(len(pairs)) * pairSize)

	var sum float64
	for _, p := range pairs {
		sum += Haversine(p, EarthRadius)
	}

	return sum / float64(len(pairs))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func square(x float64) float64 {
	return x * x
}

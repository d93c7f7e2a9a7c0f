package haversine

import (
	"iter"
	"math/rand/v2"
)

// clusterSize is the number of pairs drawn from one cluster.
const clusterSize = 1000

// Generator produces a deterministic sequence of random [CoordPair]s.
//
// In uniform mode every point is drawn from the whole globe. In cluster mode
// a new random region is chosen every 1000 pairs and points are drawn from
// it, which keeps the average distance from converging on a known constant.
//
// Create instances with [NewGenerator].
type Generator struct {
	rng     *rand.Rand
	count   int
	cur     int
	cluster bool
	minLat  float64
	maxLat  float64
	minLon  float64
	maxLon  float64
}

// NewGenerator returns a [Generator] of count pairs seeded with seed.
func NewGenerator(seed uint64, count int, cluster bool) *Generator {
	return &Generator{
		rng:     rand.New(rand.NewPCG(seed, seed)), //nolint:gosec // Reproducible input, not security.
		count:   count,
		cluster: cluster,
		minLat:  -90,
		maxLat:  90,
		minLon:  -180,
		maxLon:  180,
	}
}

// Next returns the next pair, or false once count pairs were produced.
func (g *Generator) Next() (CoordPair, bool) {
	if g.cur >= g.count {
		return CoordPair{}, false
	}

	if g.cluster && g.cur%clusterSize == 0 {
		g.newCluster()
	}

	g.cur++

	lat0, lon0 := g.point()
	lat1, lon1 := g.point()

	return CoordPair{Lat0: lat0, Lon0: lon0, Lat1: lat1, Lon1: lon1}, true
}

// All returns an iterator over the remaining pairs.
func (g *Generator) All() iter.Seq[CoordPair] {
	return func(yield func(CoordPair) bool) {
		for {
			p, ok := g.Next()
			if !ok || !yield(p) {
				return
			}
		}
	}
}

func (g *Generator) point() (float64, float64) {
	return g.between(g.minLat, g.maxLat), g.between(g.minLon, g.maxLon)
}

func (g *Generator) newCluster() {
	latCenter := g.between(-90, 90)
	lonCenter := g.between(-180, 180)
	latRadius := g.between(0, 90)
	lonRadius := g.between(0, 180)

	g.minLat = clamp(latCenter-latRadius, -90, 90)
	g.maxLat = clamp(latCenter+latRadius, -90, 90)
	g.minLon = clamp(lonCenter-lonRadius, -180, 180)
	g.maxLon = clamp(lonCenter+lonRadius, -180, 180)
}

func (g *Generator) between(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

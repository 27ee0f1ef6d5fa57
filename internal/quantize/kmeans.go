package quantize

import (
	"math"
	"math/rand"
	"slices"

	"github.com/jmylchreest/colorthief/internal/colour"
)

// KMeans implements quantization using k-means clustering.
// A KMeans holds its own random source and is not safe for concurrent use.
type KMeans struct {
	maxIterations int
	convergence   float64
	maxSamples    int
	rng           *rand.Rand
}

// NewKMeans creates a new KMeans quantizer with default settings.
func NewKMeans() *KMeans {
	return NewKMeansWithSeed(1)
}

// NewKMeansWithSeed creates a KMeans quantizer whose centroid seeding is
// reproducible for a given seed.
func NewKMeansWithSeed(seed int64) *KMeans {
	return &KMeans{
		maxIterations: 20,
		convergence:   2.0,
		maxSamples:    5000,
		rng:           rand.New(rand.NewSource(seed)), // #nosec G404 - clustering does not need crypto randomness
	}
}

// Quantize clusters samples into at most count colours, largest cluster first.
func (e *KMeans) Quantize(samples []colour.RGB, count int) []Swatch {
	if len(samples) == 0 || count < 1 {
		return nil
	}
	if len(samples) > e.maxSamples {
		samples = thin(samples, e.maxSamples)
	}

	// Count unique colours first.
	seen := make(map[colour.RGB]int)
	unique := make([]colour.RGB, 0)
	for _, s := range samples {
		if seen[s] == 0 {
			unique = append(unique, s)
		}
		seen[s]++
	}

	// If we want at least as many colours as exist, return them all.
	if count >= len(unique) {
		swatches := make([]Swatch, len(unique))
		for i, c := range unique {
			swatches[i] = Swatch{RGB: c, Weight: float64(seen[c]) / float64(len(samples))}
		}
		sortByWeight(swatches)
		return swatches
	}

	centroids, weights := e.kmeans(samples, count)

	// Distinct centroids can round to the same colour; their clusters are merged.
	index := make(map[colour.RGB]int, len(centroids))
	swatches := make([]Swatch, 0, len(centroids))
	for i, c := range centroids {
		if weights[i] == 0 {
			continue
		}
		rgb := colour.RGB{
			R: uint8(math.Round(c.R)),
			G: uint8(math.Round(c.G)),
			B: uint8(math.Round(c.B)),
		}
		if j, ok := index[rgb]; ok {
			swatches[j].Weight += weights[i]
			continue
		}
		index[rgb] = len(swatches)
		swatches = append(swatches, Swatch{RGB: rgb, Weight: weights[i]})
	}
	sortByWeight(swatches)
	return swatches
}

func sortByWeight(swatches []Swatch) {
	slices.SortStableFunc(swatches, func(a, b Swatch) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})
}

// thin keeps an evenly spaced subset of at most n samples.
func thin(samples []colour.RGB, n int) []colour.RGB {
	step := (len(samples) + n - 1) / n
	out := make([]colour.RGB, 0, n)
	for i := 0; i < len(samples); i += step {
		out = append(out, samples[i])
	}
	return out
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

// distance calculates the Euclidean distance between two points in RGB space.
func (p point3D) distance(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// kmeans performs k-means clustering on the samples.
// Returns centroids and their weights (relative cluster sizes).
func (e *KMeans) kmeans(samples []colour.RGB, k int) ([]point3D, []float64) {
	points := make([]point3D, len(samples))
	for i, s := range samples {
		points[i] = point3D{R: float64(s.R), G: float64(s.G), B: float64(s.B)}
	}

	centroids := e.initializeCentroids(points, k)
	assignments := make([]int, len(points))

	for iter := 0; iter < e.maxIterations; iter++ {
		changed := 0
		for i, point := range points {
			nearest := findNearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}

		// Fewer than 1% of assignments changed.
		if iter > 0 && float64(changed)/float64(len(points)) < 0.01 {
			break
		}

		newCentroids := e.recalculateCentroids(points, assignments, k)

		totalMovement := 0.0
		for i := range centroids {
			totalMovement += centroids[i].distance(newCentroids[i])
		}
		centroids = newCentroids

		if totalMovement/float64(k) < e.convergence {
			break
		}
	}

	// Final assignment against the settled centroids.
	for i, point := range points {
		assignments[i] = findNearestCentroid(point, centroids)
	}

	weights := make([]float64, k)
	for _, assignment := range assignments {
		weights[assignment]++
	}
	for i := range weights {
		weights[i] /= float64(len(assignments))
	}

	return centroids, weights
}

// initializeCentroids seeds centroids with k-means++.
func (e *KMeans) initializeCentroids(points []point3D, k int) []point3D {
	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[e.rng.Intn(len(points))])

	for len(centroids) < k {
		distances := make([]float64, len(points))
		totalDistance := 0.0

		for i, point := range points {
			minDist := math.MaxFloat64
			for _, centroid := range centroids {
				minDist = math.Min(minDist, point.distance(centroid))
			}
			distances[i] = minDist * minDist
			totalDistance += distances[i]
		}

		if totalDistance == 0 {
			last := centroids[len(centroids)-1]
			centroids = append(centroids, point3D{R: last.R + 0.1, G: last.G + 0.1, B: last.B + 0.1})
			continue
		}

		target := e.rng.Float64() * totalDistance
		cumulative := 0.0
		chosen := len(points) - 1
		for i, dist := range distances {
			cumulative += dist
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}

	return centroids
}

// findNearestCentroid finds the index of the nearest centroid to a point.
func findNearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, centroid := range centroids {
		if dist := point.distance(centroid); dist < minDist {
			minDist = dist
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids recalculates centroid positions based on assigned points.
func (e *KMeans) recalculateCentroids(points []point3D, assignments []int, k int) []point3D {
	sums := make([]point3D, k)
	counts := make([]int, k)

	for i, point := range points {
		cluster := assignments[i]
		sums[cluster].R += point.R
		sums[cluster].G += point.G
		sums[cluster].B += point.B
		counts[cluster]++
	}

	centroids := make([]point3D, k)
	for i := range k {
		if counts[i] > 0 {
			centroids[i] = point3D{
				R: sums[i].R / float64(counts[i]),
				G: sums[i].G / float64(counts[i]),
				B: sums[i].B / float64(counts[i]),
			}
		} else {
			// Empty cluster, reseed from a random point.
			centroids[i] = points[e.rng.Intn(len(points))]
		}
	}

	return centroids
}

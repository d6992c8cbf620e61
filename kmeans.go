package agrizone

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// kmeansResult is one run of Lloyd's algorithm: a label per row of the
// input matrix and the final centroids.
type kmeansResult struct {
	Labels    []int
	Centroids [][]float64
	Inertia   float64
}

// kmeansFit runs k-means++ initialization followed by Lloyd's algorithm on
// the rows of m, seeded deterministically by seed. No third-party
// clustering library appears anywhere in the retrieval pack, so this is a
// direct hand implementation rather than an adapted one.
func kmeansFit(m *mat.Dense, k int, seed int64) kmeansResult {
	n, d := m.Dims()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, d)
		mat.Row(row, i, m)
		rows[i] = row
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := kmeansPlusPlusInit(rows, k, rng)
	labels := make([]int, n)

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		moved := assignLabels(rows, centroids, labels)
		newCentroids := recomputeCentroids(rows, labels, k, d, centroids)

		shift := 0.0
		for c := range centroids {
			shift += floats.Distance(centroids[c], newCentroids[c], 2)
		}
		centroids = newCentroids

		if !moved || shift < kmeansTolerance {
			break
		}
	}

	inertia := 0.0
	for i, row := range rows {
		inertia += squaredDistance(row, centroids[labels[i]])
	}

	return kmeansResult{Labels: labels, Centroids: centroids, Inertia: inertia}
}

// kmeansPlusPlusInit picks k initial centroids with probability
// proportional to squared distance from the nearest centroid already
// chosen, the standard k-means++ seeding strategy.
func kmeansPlusPlusInit(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(rows)
	centroids := make([][]float64, 0, k)

	first := rng.Intn(n)
	centroids = append(centroids, append([]float64(nil), rows[first]...))

	dist := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i, row := range rows {
			best := squaredDistance(row, centroids[0])
			for _, c := range centroids[1:] {
				if dd := squaredDistance(row, c); dd < best {
					best = dd
				}
			}
			dist[i] = best
			total += best
		}
		if total == 0 {
			// All remaining points coincide with chosen centroids; pad with
			// repeats so the caller always gets exactly k centroids.
			centroids = append(centroids, append([]float64(nil), rows[rng.Intn(n)]...))
			continue
		}
		target := rng.Float64() * total
		acc := 0.0
		chosen := n - 1
		for i, dd := range dist {
			acc += dd
			if acc >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), rows[chosen]...))
	}
	return centroids
}

// assignLabels sets labels[i] to the nearest centroid for each row and
// reports whether any label changed from its previous value.
func assignLabels(rows [][]float64, centroids [][]float64, labels []int) bool {
	moved := false
	for i, row := range rows {
		best := 0
		bestDist := squaredDistance(row, centroids[0])
		for c := 1; c < len(centroids); c++ {
			if dd := squaredDistance(row, centroids[c]); dd < bestDist {
				best = c
				bestDist = dd
			}
		}
		if labels[i] != best {
			moved = true
			labels[i] = best
		}
	}
	return moved
}

// recomputeCentroids averages the rows assigned to each cluster. A cluster
// that lost every member keeps its previous centroid rather than collapsing
// to the zero vector.
func recomputeCentroids(rows [][]float64, labels []int, k, d int, previous [][]float64) [][]float64 {
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := 0; c < k; c++ {
		sums[c] = make([]float64, d)
	}
	for i, row := range rows {
		c := labels[i]
		counts[c]++
		for j, v := range row {
			sums[c][j] += v
		}
	}
	out := make([][]float64, k)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			out[c] = previous[c]
			continue
		}
		avg := make([]float64, d)
		for j := range avg {
			avg[j] = sums[c][j] / float64(counts[c])
		}
		out[c] = avg
	}
	return out
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

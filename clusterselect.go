package agrizone

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/wgdzlh/agrizone/log"
)

// candidateFit is one candidate k's evaluated k-means run.
type candidateFit struct {
	k       int
	result  kmeansResult
	quality clusterQuality
	ok      bool // false if every member was assigned to fewer than k distinct clusters
}

// selectK implements §4.3 Cluster Selector. When cfg.ForceK is set it is
// validated and used directly; otherwise every k in [2, min(MaxZones, N-1)]
// is fit concurrently (each candidate's k-means run is an independent pure
// numeric kernel, the kind of internal parallelism the spec explicitly
// allows) and the best is chosen by silhouette, breaking ties by higher
// Calinski-Harabasz then by smaller k.
func selectK(ctx context.Context, feat *mat.Dense, seed int64, cfg Config) (int, kmeansResult, clusterQuality, error) {
	n, _ := feat.Dims()
	if n-1 < 2 {
		return 0, kmeansResult{}, clusterQuality{}, newError(ErrKindInsufficientSamples, "fewer than 3 valid pixels available for clustering")
	}
	maxK := cfg.MaxZones
	if maxK > n-1 {
		maxK = n - 1
	}

	if cfg.ForceK != nil {
		k := *cfg.ForceK
		if k < 2 || k > maxK {
			return 0, kmeansResult{}, clusterQuality{}, withField(
				newError(ErrKindInvalidClusterCount, "force_k is out of the valid range for this input"),
				"max_valid_k", maxK)
		}
		fit := fitCandidate(feat, k, seed)
		if !fit.ok {
			return 0, kmeansResult{}, clusterQuality{}, newError(ErrKindClusteringFailure, "forced cluster count produced fewer than k non-empty clusters")
		}
		return k, fit.result, fit.quality, nil
	}

	candidates := make([]int, 0, maxK-1)
	for k := 2; k <= maxK; k++ {
		candidates = append(candidates, k)
	}

	fits := make([]candidateFit, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	for i, k := range candidates {
		i, k := i, k
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return newError(ErrKindCancelled, "cluster selection cancelled")
			}
			fits[i] = fitCandidate(feat, k, seed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, kmeansResult{}, clusterQuality{}, err
	}

	best := -1
	for i, f := range fits {
		if !f.ok {
			continue
		}
		if best < 0 || better(f, fits[best]) {
			best = i
		}
	}
	if best < 0 {
		return 0, kmeansResult{}, clusterQuality{}, newError(ErrKindClusteringFailure, "every candidate cluster count produced a degenerate clustering")
	}

	log.Info("cluster_select: chose k",
		zap.Int("k", fits[best].k), zap.Float64("silhouette", fits[best].quality.Silhouette),
		zap.Float64("calinski_harabasz", fits[best].quality.CalinskiHarabasz))

	return fits[best].k, fits[best].result, fits[best].quality, nil
}

// fitCandidate runs k-means for one candidate k with a seed derived solely
// from (seed, k), so concurrent candidates never share RNG state yet the
// overall result stays a deterministic function of the run's seed.
func fitCandidate(feat *mat.Dense, k int, seed int64) candidateFit {
	n, d := feat.Dims()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, d)
		mat.Row(row, i, feat)
		rows[i] = row
	}

	result := kmeansFit(feat, k, hashSeed(seed, k))
	quality := evaluateClustering(rows, result.Labels, result.Centroids)

	return candidateFit{
		k:       k,
		result:  result,
		quality: quality,
		ok:      len(quality.ClusterSizes) == k,
	}
}

// better reports whether a should be preferred over b: higher silhouette,
// then higher Calinski-Harabasz, then smaller k.
func better(a, b candidateFit) bool {
	if a.quality.Silhouette != b.quality.Silhouette {
		return a.quality.Silhouette > b.quality.Silhouette
	}
	if a.quality.CalinskiHarabasz != b.quality.CalinskiHarabasz {
		return a.quality.CalinskiHarabasz > b.quality.CalinskiHarabasz
	}
	return a.k < b.k
}

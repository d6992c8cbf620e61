package agrizone

import (
	"time"

	"go.uber.org/zap"

	"github.com/wgdzlh/agrizone/log"
)

// clusterOutput is the §4.4 Clusterer's result: the full (H, W) labeled
// raster (unmasked pixels hold -1) and the metrics describing the fit.
type clusterOutput struct {
	Labels  [][]int32
	Metrics ClusterMetrics
}

// runClusterer reconstructs the labeled raster from the chosen k's fit and
// assembles ClusterMetrics. coords must be scanOrder(mask), so coords[i]
// is the pixel that produced row i of result.Labels.
func runClusterer(h, w int, coords []pixelCoord, k int, result kmeansResult, quality clusterQuality) clusterOutput {
	labels := make([][]int32, h)
	for r := range labels {
		labels[r] = make([]int32, w)
		for c := range labels[r] {
			labels[r][c] = -1
		}
	}
	for i, p := range coords {
		labels[p.R][p.C] = int32(result.Labels[i])
	}

	sizes := make(map[int]int, len(quality.ClusterSizes))
	for c, n := range quality.ClusterSizes {
		sizes[c] = n
	}

	metrics := ClusterMetrics{
		NClusters:        k,
		Silhouette:       quality.Silhouette,
		CalinskiHarabasz: quality.CalinskiHarabasz,
		Inertia:          quality.Inertia,
		ClusterSizes:     sizes,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}

	log.Info("clusterer: fit final labeling",
		zap.Int("k", k), zap.Int("height", h), zap.Int("width", w))

	return clusterOutput{Labels: labels, Metrics: metrics}
}

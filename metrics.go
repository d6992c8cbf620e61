package agrizone

import "gonum.org/v1/gonum/floats"

// clusterQuality scores a labeling against the rows it was fit on. silhouette
// and calinskiHarabasz are both computed here since each needs the same
// per-cluster grouping of rows.
type clusterQuality struct {
	Silhouette       float64
	CalinskiHarabasz float64
	Inertia          float64
	ClusterSizes     map[int]int
}

// evaluateClustering computes the quality metrics §4.3/§4.4 need to compare
// candidate values of k and to populate the final ClusterMetrics.
func evaluateClustering(rows [][]float64, labels []int, centroids [][]float64) clusterQuality {
	byCluster := groupByLabel(rows, labels)
	sizes := make(map[int]int, len(byCluster))
	for c, members := range byCluster {
		sizes[c] = len(members)
	}

	return clusterQuality{
		Silhouette:       meanSilhouette(rows, labels, byCluster),
		CalinskiHarabasz: calinskiHarabasz(rows, labels, centroids, byCluster),
		Inertia:          inertiaOf(rows, labels, centroids),
		ClusterSizes:     sizes,
	}
}

func groupByLabel(rows [][]float64, labels []int) map[int][]int {
	groups := make(map[int][]int)
	for i, c := range labels {
		groups[c] = append(groups[c], i)
	}
	return groups
}

// meanSilhouette computes the standard silhouette coefficient, averaged over
// all points. A point in a singleton cluster contributes 0, matching the
// conventional definition when b is undefined.
func meanSilhouette(rows [][]float64, labels []int, byCluster map[int][]int) float64 {
	if len(byCluster) < 2 {
		return 0
	}
	n := len(rows)
	total := 0.0
	for i := range rows {
		own := labels[i]
		members := byCluster[own]
		a := 0.0
		if len(members) > 1 {
			for _, j := range members {
				if j == i {
					continue
				}
				a += floats.Distance(rows[i], rows[j], 2)
			}
			a /= float64(len(members) - 1)
		}

		b := -1.0
		for other, otherMembers := range byCluster {
			if other == own {
				continue
			}
			sum := 0.0
			for _, j := range otherMembers {
				sum += floats.Distance(rows[i], rows[j], 2)
			}
			avg := sum / float64(len(otherMembers))
			if b < 0 || avg < b {
				b = avg
			}
		}

		switch {
		case len(members) <= 1:
			total += 0
		case a == 0 && b == 0:
			total += 0
		default:
			m := a
			if b > m {
				m = b
			}
			total += (b - a) / m
		}
	}
	return total / float64(n)
}

// calinskiHarabasz is the between-cluster / within-cluster dispersion ratio,
// scaled by the standard degrees-of-freedom factor. Returns 0 when there are
// fewer than 2 clusters, no more points than clusters, or zero within-cluster
// dispersion.
func calinskiHarabasz(rows [][]float64, labels []int, centroids [][]float64, byCluster map[int][]int) float64 {
	n := len(rows)
	k := len(byCluster)
	if k < 2 || n <= k {
		return 0
	}
	d := len(rows[0])
	overall := make([]float64, d)
	for _, row := range rows {
		for j, v := range row {
			overall[j] += v
		}
	}
	for j := range overall {
		overall[j] /= float64(n)
	}

	between := 0.0
	for c, members := range byCluster {
		between += float64(len(members)) * squaredDistance(centroids[c], overall)
	}
	within := inertiaOf(rows, labels, centroids)
	if within == 0 {
		return 0
	}
	return (between / within) * (float64(n-k) / float64(k-1))
}

func inertiaOf(rows [][]float64, labels []int, centroids [][]float64) float64 {
	total := 0.0
	for i, row := range rows {
		total += squaredDistance(row, centroids[labels[i]])
	}
	return total
}

package uvatlas

import (
	"fmt"
	"math"
	"sort"

	"github.com/flywave/go3d/vec3"
)

type edgeKey struct {
	a, b uint32
}

type edgeUse struct {
	face    uint32
	edge    uint8
	forward bool
}

// GenerateAdjacency 计算每个面每条边的相邻面, epsilon 内重合的顶点视为同一点
func GenerateAdjacency(positions []vec3.T, faces [][3]uint32, epsilon float32) (Adjacency, PointReps, error) {
	if uint64(len(positions)) >= uint64(Unused) {
		return nil, nil, fmt.Errorf("%w: too many vertices (%d)", ErrAdjacency, len(positions))
	}
	if uint64(len(faces)) >= uint64(Unused) {
		return nil, nil, fmt.Errorf("%w: too many faces (%d)", ErrAdjacency, len(faces))
	}
	if epsilon < 0 || math.IsNaN(float64(epsilon)) {
		return nil, nil, fmt.Errorf("%w: epsilon %v", ErrAdjacency, epsilon)
	}
	nVerts := uint32(len(positions))
	for f, face := range faces {
		for k := 0; k < 3; k++ {
			if face[k] >= nVerts {
				return nil, nil, fmt.Errorf("%w: face %d index %d out of range (%d vertices)", ErrAdjacency, f, face[k], nVerts)
			}
		}
	}

	reps := GeneratePointReps(positions, epsilon)

	edges := make(map[edgeKey][]edgeUse)
	for f, face := range faces {
		r := [3]uint32{reps[face[0]], reps[face[1]], reps[face[2]]}
		if r[0] == r[1] || r[1] == r[2] || r[0] == r[2] {
			continue
		}
		for k := 0; k < 3; k++ {
			a, b := r[k], r[(k+1)%3]
			key := edgeKey{a, b}
			if a > b {
				key = edgeKey{b, a}
			}
			edges[key] = append(edges[key], edgeUse{face: uint32(f), edge: uint8(k), forward: a < b})
		}
	}

	adj := make(Adjacency, len(faces))
	for i := range adj {
		adj[i] = [3]uint32{Unused, Unused, Unused}
	}
	for _, uses := range edges {
		switch {
		case len(uses) < 2:
		case len(uses) == 2:
			link(adj, uses[0], uses[1])
		default:
			// 非流形边: 按出现顺序与第一个反向未配对的面配对
			paired := make([]bool, len(uses))
			for i := range uses {
				if paired[i] {
					continue
				}
				for j := i + 1; j < len(uses); j++ {
					if paired[j] || uses[j].forward == uses[i].forward {
						continue
					}
					link(adj, uses[i], uses[j])
					paired[i], paired[j] = true, true
					break
				}
			}
		}
	}
	return adj, reps, nil
}

func link(adj Adjacency, u, v edgeUse) {
	adj[u.face][u.edge] = v.face
	adj[v.face][v.edge] = u.face
}

// GeneratePointReps 为每个顶点选取代表顶点
func GeneratePointReps(positions []vec3.T, epsilon float32) PointReps {
	reps := make(PointReps, len(positions))
	if epsilon == 0 {
		seen := make(map[vec3.T]uint32, len(positions))
		for i, p := range positions {
			if r, ok := seen[p]; ok {
				reps[i] = r
				continue
			}
			seen[p] = uint32(i)
			reps[i] = uint32(i)
		}
		return reps
	}

	order := make([]uint32, len(positions))
	sums := make([]float32, len(positions))
	for i := range positions {
		order[i] = uint32(i)
		reps[i] = Unused
		sums[i] = positions[i][0] + positions[i][1] + positions[i][2]
	}
	sort.SliceStable(order, func(i, j int) bool {
		return sums[order[i]] < sums[order[j]]
	})

	for a := 0; a < len(order); a++ {
		va := order[a]
		if reps[va] != Unused {
			continue
		}
		reps[va] = va
		pa := &positions[va]
		for b := a + 1; b < len(order); b++ {
			vb := order[b]
			if sums[vb]-sums[va] > 3*epsilon {
				break
			}
			if reps[vb] != Unused {
				continue
			}
			pb := &positions[vb]
			if abs32(pa[0]-pb[0]) <= epsilon && abs32(pa[1]-pb[1]) <= epsilon && abs32(pa[2]-pb[2]) <= epsilon {
				reps[vb] = va
			}
		}
	}
	return reps
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

package uvatlas

import (
	"fmt"

	"github.com/flywave/go3d/vec3"
)

// Validate 检查网格拓扑缺陷, 非致命问题以诊断信息返回
func Validate(faces [][3]uint32, positions []vec3.T, adj Adjacency, flags ValidateFlags) ([]string, error) {
	nVerts := uint32(len(positions))
	nFaces := uint32(len(faces))
	for f, face := range faces {
		for k := 0; k < 3; k++ {
			if face[k] >= nVerts {
				return nil, fmt.Errorf("%w: face %d references vertex %d (%d vertices)", ErrValidation, f, face[k], nVerts)
			}
		}
	}
	if adj != nil {
		if len(adj) != len(faces) {
			return nil, fmt.Errorf("%w: adjacency has %d entries for %d faces", ErrValidation, len(adj), len(faces))
		}
		for f := range adj {
			for e := 0; e < 3; e++ {
				if n := adj[f][e]; n != Unused && n >= nFaces {
					return nil, fmt.Errorf("%w: face %d edge %d neighbor %d out of range", ErrValidation, f, e, n)
				}
			}
		}
	}

	var msgs []string
	if flags&ValidateDegenerate != 0 {
		for f, face := range faces {
			if face[0] == face[1] || face[1] == face[2] || face[0] == face[2] {
				msgs = append(msgs, fmt.Sprintf("face %d is degenerate (%d, %d, %d)", f, face[0], face[1], face[2]))
			}
		}
	}
	if flags&ValidateUnused != 0 {
		used := make([]bool, nVerts)
		for _, face := range faces {
			used[face[0]], used[face[1]], used[face[2]] = true, true, true
		}
		for v, ok := range used {
			if !ok {
				msgs = append(msgs, fmt.Sprintf("vertex %d is not referenced by any face", v))
			}
		}
	}
	if adj == nil {
		return msgs, nil
	}

	if flags&ValidateAsymmetricAdjacency != 0 {
		for f := range adj {
			for e := 0; e < 3; e++ {
				n := adj[f][e]
				if n == Unused {
					continue
				}
				if sharedEdge(adj, n, uint32(f)) < 0 {
					msgs = append(msgs, fmt.Sprintf("face %d lists neighbor %d on edge %d, which does not list it back", f, n, e))
				}
			}
		}
	}
	if flags&ValidateBackfacing != 0 {
		for f := range adj {
			for e := 0; e < 3; e++ {
				n := adj[f][e]
				if n == Unused {
					continue
				}
				if adj[f][(e+1)%3] == n || adj[f][(e+2)%3] == n {
					if e == sharedEdge(adj, uint32(f), n) {
						msgs = append(msgs, fmt.Sprintf("face %d lists neighbor %d on more than one edge (backfacing duplicate)", f, n))
					}
					continue
				}
				if n < uint32(f) {
					continue
				}
				j := sharedEdge(adj, n, uint32(f))
				if j < 0 {
					continue
				}
				if sameDirection(positions, faces[f], e, faces[n], j) {
					msgs = append(msgs, fmt.Sprintf("faces %d and %d share edge with inconsistent winding (backfacing)", f, n))
				}
			}
		}
	}
	if flags&ValidateBowties != 0 {
		fans := vertexFans(faces, adj)
		counts := make(map[uint32]map[uint32]struct{})
		for c, root := range fans {
			v := faces[c/3][c%3]
			if counts[v] == nil {
				counts[v] = make(map[uint32]struct{})
			}
			counts[v][root] = struct{}{}
		}
		for v := uint32(0); v < nVerts; v++ {
			if n := len(counts[v]); n > 1 {
				msgs = append(msgs, fmt.Sprintf("vertex %d is a bowtie (%d fans)", v, n))
			}
		}
	}
	return msgs, nil
}

func sharedEdge(adj Adjacency, face, neighbor uint32) int {
	for e := 0; e < 3; e++ {
		if adj[face][e] == neighbor {
			return e
		}
	}
	return -1
}

// sameDirection 判断两面的公共边是否同向遍历
func sameDirection(positions []vec3.T, fa [3]uint32, ea int, fb [3]uint32, eb int) bool {
	a0, a1 := fa[ea], fa[(ea+1)%3]
	b0, b1 := fb[eb], fb[(eb+1)%3]
	if a0 == b0 && a1 == b1 {
		return true
	}
	if a0 == b1 && a1 == b0 {
		return false
	}
	same := vec3.SquareDistance(&positions[a0], &positions[b0]) + vec3.SquareDistance(&positions[a1], &positions[b1])
	opposite := vec3.SquareDistance(&positions[a0], &positions[b1]) + vec3.SquareDistance(&positions[a1], &positions[b0])
	return same < opposite
}

// vertexFans 以并查集把共享顶点且经由相邻边连通的角归为同一扇, 返回每个角的根
func vertexFans(faces [][3]uint32, adj Adjacency) []uint32 {
	parent := make([]uint32, 3*len(faces))
	for i := range parent {
		parent[i] = uint32(i)
	}
	find := func(c uint32) uint32 {
		for parent[c] != c {
			parent[c] = parent[parent[c]]
			c = parent[c]
		}
		return c
	}
	union := func(a, b uint32) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	nFaces := uint32(len(faces))
	for f, face := range faces {
		base := uint32(3 * f)
		for k := 0; k < 3; k++ {
			v := face[k]
			for j := k + 1; j < 3; j++ {
				if face[j] == v {
					union(base+uint32(k), base+uint32(j))
				}
			}
			if adj == nil {
				continue
			}
			for _, e := range [2]int{k, (k + 2) % 3} {
				n := adj[f][e]
				if n == Unused || n >= nFaces {
					continue
				}
				for j := 0; j < 3; j++ {
					if faces[n][j] == v {
						union(base+uint32(k), 3*n+uint32(j))
						break
					}
				}
			}
		}
	}

	roots := make([]uint32, len(parent))
	for c := range parent {
		roots[c] = find(uint32(c))
	}
	return roots
}

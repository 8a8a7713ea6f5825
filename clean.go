package uvatlas

import (
	"fmt"

	"github.com/flywave/go3d/vec3"
)

// Clean 拆分蝴蝶结顶点, 返回新的面索引和复制列表
//
// 复制列表第 j 项为被复制的原始顶点索引, 对应新顶点 nVerts+j.
// 输入的 faces 不会被修改.
func Clean(faces [][3]uint32, nVerts int, adj Adjacency, breakBowties bool) ([][3]uint32, []uint32, error) {
	if adj != nil && len(adj) != len(faces) {
		return nil, nil, fmt.Errorf("%w: adjacency has %d entries for %d faces", ErrClean, len(adj), len(faces))
	}
	for f, face := range faces {
		for k := 0; k < 3; k++ {
			if int(face[k]) >= nVerts {
				return nil, nil, fmt.Errorf("%w: face %d references vertex %d (%d vertices)", ErrClean, f, face[k], nVerts)
			}
		}
	}

	cleaned := make([][3]uint32, len(faces))
	copy(cleaned, faces)
	var dups []uint32
	if !breakBowties || adj == nil {
		return cleaned, dups, nil
	}

	fans := vertexFans(faces, adj)
	claimed := make([]bool, nVerts)
	assigned := make(map[uint32]uint32)
	for c, root := range fans {
		f, k := c/3, c%3
		v := faces[f][k]
		idx, ok := assigned[root]
		if !ok {
			if !claimed[v] {
				claimed[v] = true
				idx = v
			} else {
				idx = uint32(nVerts + len(dups))
				dups = append(dups, v)
			}
			assigned[root] = idx
		}
		cleaned[f][k] = idx
	}

	for _, d := range dups {
		if int(d) >= nVerts {
			return nil, nil, fmt.Errorf("%w: duplicate of vertex %d (%d original vertices)", ErrClean, d, nVerts)
		}
	}
	return cleaned, dups, nil
}

// ExtendPositions 按复制列表顺序在原始顶点之后追加副本
func ExtendPositions(positions []vec3.T, dups []uint32) ([]vec3.T, error) {
	nVerts := len(positions)
	out := make([]vec3.T, nVerts, nVerts+len(dups))
	copy(out, positions)
	for j, d := range dups {
		if int(d) >= nVerts {
			return nil, fmt.Errorf("%w: entry %d references vertex %d (%d original vertices)", ErrClean, j, d, nVerts)
		}
		out = append(out, positions[d])
	}
	return out, nil
}

// resolveOriginal 将清理后网格的顶点索引映射回原始顶点
func resolveOriginal(v uint32, nVerts int, dups []uint32) uint32 {
	if int(v) < nVerts {
		return v
	}
	return dups[int(v)-nVerts]
}

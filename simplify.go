package uvatlas

import (
	"fmt"

	"github.com/flywave/go3d/vec3"
	"github.com/fogleman/simplify"
)

// Simplify 以二次误差度量减面, factor 为保留面数比例 (0,1]
//
// 减面结果为三角形汤, 按位置完全相同重新建立索引. 退化面被丢弃.
func Simplify(m *Mesh, factor float64) (*Mesh, error) {
	if factor <= 0 || factor > 1 {
		return nil, fmt.Errorf("%w: simplify factor %v not in (0,1]", ErrOptions, factor)
	}
	if factor == 1 {
		out := &Mesh{
			Positions: make([]vec3.T, len(m.Positions)),
			Faces:     make([][3]uint32, len(m.Faces)),
		}
		copy(out.Positions, m.Positions)
		copy(out.Faces, m.Faces)
		return out, nil
	}

	triangles := make([]*simplify.Triangle, 0, len(m.Faces))
	for f, face := range m.Faces {
		for k := 0; k < 3; k++ {
			if int(face[k]) >= len(m.Positions) {
				return nil, fmt.Errorf("%w: face %d index %d out of range (%d vertices)", ErrAdjacency, f, face[k], len(m.Positions))
			}
		}
		triangles = append(triangles, simplify.NewTriangle(
			toSimplifyVector(m.Positions[face[0]]),
			toSimplifyVector(m.Positions[face[1]]),
			toSimplifyVector(m.Positions[face[2]]),
		))
	}
	reduced := simplify.NewMesh(triangles).Simplify(factor)

	out := &Mesh{}
	lookup := make(map[vec3.T]uint32)
	index := func(v simplify.Vector) uint32 {
		p := vec3.T{float32(v.X), float32(v.Y), float32(v.Z)}
		if i, ok := lookup[p]; ok {
			return i
		}
		i := uint32(len(out.Positions))
		lookup[p] = i
		out.Positions = append(out.Positions, p)
		return i
	}
	for _, t := range reduced.Triangles {
		face := [3]uint32{index(t.V1), index(t.V2), index(t.V3)}
		if face[0] == face[1] || face[1] == face[2] || face[0] == face[2] {
			continue
		}
		out.Faces = append(out.Faces, face)
	}
	return out, nil
}

func toSimplifyVector(p vec3.T) simplify.Vector {
	return simplify.Vector{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

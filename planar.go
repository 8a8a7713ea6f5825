package uvatlas

import (
	"context"
	"fmt"
	"math"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// PlanarCharter 基于法线区域生长与正交投影的参考图表生成器
//
// 相邻面法线与种子面法线的点积不小于 1-MaxStretch 时并入同一图表,
// 每个图表投影到其面积加权法线的垂直平面, 之后按行排布到图集中.
type PlanarCharter struct{}

func NewPlanarCharter() *PlanarCharter {
	return &PlanarCharter{}
}

type planarChart struct {
	faces  []uint32
	normal vec3.T
	minDot float32
}

func (c *PlanarCharter) Generate(ctx context.Context, in *ChartInput) (*ChartResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	nFaces := len(in.Faces)
	if in.Adjacency != nil && len(in.Adjacency) != nFaces {
		return nil, fmt.Errorf("%w: adjacency has %d entries for %d faces", ErrChart, len(in.Adjacency), nFaces)
	}
	for f, face := range in.Faces {
		for k := 0; k < 3; k++ {
			if int(face[k]) >= len(in.Positions) {
				return nil, fmt.Errorf("%w: face %d references vertex %d", ErrChart, f, face[k])
			}
		}
	}

	normals := make([]vec3.T, nFaces)
	areas := make([]float32, nFaces)
	for f, face := range in.Faces {
		p0, p1, p2 := &in.Positions[face[0]], &in.Positions[face[1]], &in.Positions[face[2]]
		normals[f] = faceNormal(p0, p1, p2)
		areas[f] = faceArea(p0, p1, p2)
	}

	threshold := 1 - in.MaxStretch - 1e-6
	partition := make([]uint32, nFaces)
	for i := range partition {
		partition[i] = Unused
	}
	var charts []*planarChart
	for seed := 0; seed < nFaces; seed++ {
		if partition[seed] != Unused {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, Aborted(err)
		}
		id := uint32(len(charts))
		if in.MaxCharts > 0 && len(charts) >= in.MaxCharts {
			return nil, fmt.Errorf("%w: more than %d charts required", ErrChart, in.MaxCharts)
		}
		ch := &planarChart{minDot: 1}
		seedN := normals[seed]
		partition[seed] = id
		queue := []uint32{uint32(seed)}
		for len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]
			ch.faces = append(ch.faces, f)
			weighted := normals[f]
			ch.normal.Add(weighted.Scale(areas[f]))
			if in.Adjacency == nil || isZero(&seedN) {
				continue
			}
			for e := 0; e < 3; e++ {
				n := in.Adjacency[f][e]
				if n == Unused || int(n) >= nFaces || partition[n] != Unused {
					continue
				}
				d := vec3.Dot(&normals[n], &seedN)
				if d <= 0 || d < threshold {
					continue
				}
				partition[n] = id
				queue = append(queue, n)
			}
		}
		if isZero(&ch.normal) {
			ch.normal = seedN
		}
		if isZero(&ch.normal) {
			ch.normal = vec3.UnitZ
		}
		ch.normal.Normalize()
		for _, f := range ch.faces {
			if isZero(&normals[f]) {
				continue
			}
			if d := vec3.Dot(&normals[f], &ch.normal); d < ch.minDot {
				ch.minDot = d
			}
		}
		charts = append(charts, ch)
	}

	res := &ChartResult{
		Indices:       make([]uint32, 3*nFaces),
		FacePartition: partition,
		Charts:        len(charts),
	}
	rects := make([]chartRect, len(charts))
	local := make([][]vec2.T, len(charts))
	starts := make([]int, len(charts))
	for id, ch := range charts {
		u, v := planeBasis(&ch.normal)
		starts[id] = len(res.Vertices)
		seen := make(map[uint32]uint32)
		minU, minV := math.Inf(1), math.Inf(1)
		maxU, maxV := math.Inf(-1), math.Inf(-1)
		for _, f := range ch.faces {
			for k := 0; k < 3; k++ {
				src := in.Faces[f][k]
				idx, ok := seen[src]
				if !ok {
					idx = uint32(len(res.Vertices))
					seen[src] = idx
					p := in.Positions[src]
					res.Vertices = append(res.Vertices, ChartVertex{Position: p})
					res.VertexRemap = append(res.VertexRemap, src)
					uv := vec2.T{vec3.Dot(&p, &u), vec3.Dot(&p, &v)}
					local[id] = append(local[id], uv)
					minU, maxU = math.Min(minU, float64(uv[0])), math.Max(maxU, float64(uv[0]))
					minV, maxV = math.Min(minV, float64(uv[1])), math.Max(maxV, float64(uv[1]))
				}
				res.Indices[3*int(f)+k] = idx
			}
		}
		rects[id] = chartRect{w: maxU - minU, h: maxV - minV, x: minU, y: minV}
		if s := 1 - ch.minDot; s > res.Stretch {
			res.Stretch = s
		}
	}

	origins := make([][2]float64, len(rects))
	for i := range rects {
		origins[i] = [2]float64{rects[i].x, rects[i].y}
	}
	scale, err := packCharts(rects, in.Width, in.Height, float64(in.Gutter))
	if err != nil {
		return nil, err
	}
	W, H := float64(in.Width), float64(in.Height)
	for id := range charts {
		for j, uv := range local[id] {
			x := rects[id].x + (float64(uv[0])-origins[id][0])*scale
			y := rects[id].y + (float64(uv[1])-origins[id][1])*scale
			res.Vertices[starts[id]+j].UV = vec2.T{clamp01(float32(x / W)), clamp01(float32(y / H))}
		}
	}
	return res, nil
}

// planeBasis 构造与法线正交的 (u, v), 满足 u×v = n
func planeBasis(n *vec3.T) (vec3.T, vec3.T) {
	a := vec3.UnitX
	if abs32(n[0]) > 0.9 {
		a = vec3.UnitY
	}
	u := vec3.Cross(&a, n)
	u.Normalize()
	v := vec3.Cross(n, &u)
	return u, v
}

func isZero(v *vec3.T) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

package uvatlas

import (
	"context"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// ChartInput 图表生成的输入, 顶点与面均为清理后的网格
type ChartInput struct {
	Positions  []vec3.T
	Faces      [][3]uint32
	Adjacency  Adjacency
	MaxCharts  int
	MaxStretch float32
	Width      int
	Height     int
	Gutter     float32
}

// ChartVertex 图表顶点, UV 位于 [0,1] 归一化图集空间
type ChartVertex struct {
	Position vec3.T `json:"position"`
	UV       vec2.T `json:"uv"`
}

// ChartResult 图表生成结果
type ChartResult struct {
	Vertices      []ChartVertex `json:"vertices"`
	Indices       []uint32      `json:"indices"`
	FacePartition []uint32      `json:"facePartition"`
	VertexRemap   []uint32      `json:"vertexRemap"`
	Charts        int           `json:"charts"`
	Stretch       float32       `json:"stretch"`
}

// ChartGenerator 图表划分与 UV 参数化能力
//
// 实现可以为切割接缝再次复制顶点, 结果顶点数不必等于输入顶点数.
// 响应 ctx 取消时应返回 Aborted 包装的错误而不是部分结果.
type ChartGenerator interface {
	Generate(ctx context.Context, in *ChartInput) (*ChartResult, error)
}

type ChartGeneratorFunc func(ctx context.Context, in *ChartInput) (*ChartResult, error)

func (fn ChartGeneratorFunc) Generate(ctx context.Context, in *ChartInput) (*ChartResult, error) {
	return fn(ctx, in)
}

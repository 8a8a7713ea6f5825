package uvatlas

import (
	"fmt"
)

// PackedResult 流水线输出
type PackedResult struct {
	Remap      []int32     `json:"remap"`
	Faces      IntMatrix   `json:"faces"`
	UV         FloatMatrix `json:"uv"`
	FaceCharts []int32     `json:"faceCharts,omitempty"`
	Charts     int         `json:"charts"`
	Stretch    float32     `json:"stretch"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// EmptyResult 失败时返回的空结果: remap 长度 0, faces 0×3, uv 0×2
func EmptyResult() *PackedResult {
	return &PackedResult{
		Remap: []int32{},
		Faces: NewIntMatrix(0, 3),
		UV:    NewFloatMatrix(0, 2),
	}
}

func (r *PackedResult) IsEmpty() bool {
	return len(r.Remap) == 0 && r.Faces.Rows == 0 && r.UV.Rows == 0
}

func (r *PackedResult) VertexCount() int {
	return len(r.Remap)
}

func (r *PackedResult) FaceCount() int {
	return r.Faces.Rows
}

// Pack 校验图表结果并重新打包为调用方缓冲
//
// nFaces 为输入面数, nVerts 为原始顶点数, dups 为清理阶段的复制列表.
// remap 经复制列表映射回原始顶点索引.
func Pack(res *ChartResult, nFaces, nVerts int, dups []uint32, faceCharts bool) (*PackedResult, error) {
	if res == nil {
		return nil, fmt.Errorf("%w: nil result", ErrPack)
	}
	nv := len(res.Vertices)
	if len(res.Indices) != 3*nFaces {
		return nil, fmt.Errorf("%w: %d indices for %d faces", ErrPack, len(res.Indices), nFaces)
	}
	if len(res.FacePartition) != nFaces {
		return nil, fmt.Errorf("%w: face partition has %d entries for %d faces", ErrPack, len(res.FacePartition), nFaces)
	}
	if len(res.VertexRemap) != nv {
		return nil, fmt.Errorf("%w: vertex remap has %d entries for %d vertices", ErrPack, len(res.VertexRemap), nv)
	}
	if uint64(nv) > uint64(^uint32(0)>>1) {
		return nil, fmt.Errorf("%w: %d vertices exceed index range", ErrPack, nv)
	}

	nClean := nVerts + len(dups)
	out := &PackedResult{
		Remap:   make([]int32, nv),
		Faces:   NewIntMatrix(nFaces, 3),
		UV:      NewFloatMatrix(nv, 2),
		Charts:  res.Charts,
		Stretch: res.Stretch,
	}
	for i, r := range res.VertexRemap {
		if int(r) >= nClean {
			return nil, fmt.Errorf("%w: vertex %d remaps to %d (%d cleaned vertices)", ErrPack, i, r, nClean)
		}
		out.Remap[i] = int32(resolveOriginal(r, nVerts, dups))
	}
	for i, idx := range res.Indices {
		if int(idx) >= nv {
			return nil, fmt.Errorf("%w: index %d of face %d is %d (%d vertices)", ErrPack, i%3, i/3, idx, nv)
		}
		out.Faces.Data[i] = int32(idx)
	}
	for i := range res.Vertices {
		uv := res.Vertices[i].UV
		out.UV.Data[2*i] = uv[0]
		out.UV.Data[2*i+1] = uv[1]
	}
	if faceCharts {
		out.FaceCharts = make([]int32, nFaces)
		for i, c := range res.FacePartition {
			out.FaceCharts[i] = int32(c)
		}
	}
	return out, nil
}

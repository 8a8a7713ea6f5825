package uvatlas

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/flywave/go3d/vec3"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const (
	// GLTFVersion 定义GLTF规范版本
	GLTFVersion = "2.0"

	// PaddingChar 用于二进制填充的字符
	PaddingChar = 0x20
)

// LoadGltf 读取 .gltf/.glb 中所有三角形图元并合并为一个网格
func LoadGltf(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	return GltfToMesh(doc)
}

// GltfToMesh 合并文档中的三角形图元, 索引按图元顺序偏移
func GltfToMesh(doc *gltf.Document) (*Mesh, error) {
	m := &Mesh{}
	for mi, mh := range doc.Meshes {
		for pi, ps := range mh.Primitives {
			if ps.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := ps.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: read position failed: %w", mi, pi, err)
			}

			var indices []uint32
			if ps.Indices != nil {
				indices, err = modeler.ReadIndices(doc, doc.Accessors[*ps.Indices], nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d: read indices failed: %w", mi, pi, err)
				}
			} else {
				indices = make([]uint32, len(positions))
				for k := range indices {
					indices[k] = uint32(k)
				}
			}
			if len(indices)%3 != 0 {
				return nil, fmt.Errorf("mesh %d primitive %d: %d indices is not a triangle list", mi, pi, len(indices))
			}

			base := uint32(len(m.Positions))
			for _, p := range positions {
				m.Positions = append(m.Positions, vec3.T{p[0], p[1], p[2]})
			}
			for i := 0; i < len(indices); i += 3 {
				m.Faces = append(m.Faces, [3]uint32{base + indices[i], base + indices[i+1], base + indices[i+2]})
			}
		}
	}
	if len(m.Faces) == 0 {
		return nil, errors.New("gltf: no triangle primitives")
	}
	return m, nil
}

// CreateDoc 创建一个新的GLTF文档
func CreateDoc() *gltf.Document {
	doc := &gltf.Document{
		Asset: gltf.Asset{
			Version: GLTFVersion,
		},
		Scenes:  []*gltf.Scene{{}},
		Buffers: []*gltf.Buffer{{}},
	}

	sceneIndex := uint32(0)
	doc.Scene = &sceneIndex

	return doc
}

// BuildGltf 把图集结果写入文档: 每个图表顶点一份位置, TEXCOORD_0 为图集 UV
//
// positions 为输入网格顶点, 结果的 remap 指向它.
func BuildGltf(doc *gltf.Document, positions []vec3.T, res *PackedResult, name string) error {
	if res.IsEmpty() {
		return errors.New("gltf: empty atlas result")
	}
	if res.UV.Rows != len(res.Remap) {
		return fmt.Errorf("gltf: %d uv rows for %d vertices", res.UV.Rows, len(res.Remap))
	}
	pos := make([][3]float32, len(res.Remap))
	uvs := make([][2]float32, len(res.Remap))
	for i, r := range res.Remap {
		if r < 0 || int(r) >= len(positions) {
			return fmt.Errorf("gltf: remap %d out of range (%d positions)", r, len(positions))
		}
		pos[i] = positions[r]
		row := res.UV.Row(i)
		uvs[i] = [2]float32{row[0], row[1]}
	}
	indices := make([]uint32, len(res.Faces.Data))
	for i, idx := range res.Faces.Data {
		indices[i] = uint32(idx)
	}

	posAcc := modeler.WritePosition(doc, pos)
	uvAcc := modeler.WriteTextureCoord(doc, uvs)
	idxAcc := modeler.WriteIndices(doc, indices)

	meshIndex := uint32(len(doc.Meshes))
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(idxAcc),
			Mode:    gltf.PrimitiveTriangles,
			Attributes: map[string]uint32{
				gltf.POSITION:   posAcc,
				gltf.TEXCOORD_0: uvAcc,
			},
		}},
	})
	nodeIndex := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(meshIndex)})
	scene := doc.Scenes[0]
	scene.Nodes = append(scene.Nodes, nodeIndex)
	return nil
}

// calcPadding 计算需要的填充字节数
func calcPadding(offset, unit int) int {
	padding := offset % unit
	if padding != 0 {
		padding = unit - padding
	}
	return padding
}

// GetGltfBinary 将GLTF文档编码为二进制格式
func GetGltfBinary(doc *gltf.Document, paddingUnit int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := WriteGltf(buf, doc, true); err != nil {
		return nil, err
	}

	padding := calcPadding(buf.Len(), paddingUnit)
	if padding == 0 {
		return buf.Bytes(), nil
	}
	buf.Write(bytes.Repeat([]byte{PaddingChar}, padding))
	return buf.Bytes(), nil
}

func WriteGltf(w io.Writer, doc *gltf.Document, binary bool) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = binary
	return encoder.Encode(doc)
}

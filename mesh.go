package uvatlas

import (
	"fmt"
	"math"

	dvec3 "github.com/flywave/go3d/float64/vec3"

	"github.com/flywave/go3d/vec3"
)

type Mesh struct {
	Positions []vec3.T    `json:"positions"`
	Faces     [][3]uint32 `json:"faces"`
}

func NewMesh(positions []vec3.T, faces [][3]uint32) *Mesh {
	return &Mesh{Positions: positions, Faces: faces}
}

// MeshFromMatrices 将调用方的 N×3 顶点矩阵与 M×3 面矩阵复制为自有缓冲
func MeshFromMatrices(vertices FloatMatrix, faces IntMatrix) (*Mesh, error) {
	if !vertices.valid() || (vertices.Rows > 0 && vertices.Cols != 3) {
		return nil, fmt.Errorf("%w: vertices must be N×3, got %d×%d (%d values)", ErrAdjacency, vertices.Rows, vertices.Cols, len(vertices.Data))
	}
	if !faces.valid() || (faces.Rows > 0 && faces.Cols != 3) {
		return nil, fmt.Errorf("%w: faces must be M×3, got %d×%d (%d values)", ErrAdjacency, faces.Rows, faces.Cols, len(faces.Data))
	}
	m := &Mesh{
		Positions: make([]vec3.T, vertices.Rows),
		Faces:     make([][3]uint32, faces.Rows),
	}
	for i := range m.Positions {
		r := vertices.Row(i)
		m.Positions[i] = vec3.T{r[0], r[1], r[2]}
	}
	for i := range m.Faces {
		r := faces.Row(i)
		for k := 0; k < 3; k++ {
			if r[k] < 0 {
				return nil, fmt.Errorf("%w: face %d has negative index %d", ErrAdjacency, i, r[k])
			}
			m.Faces[i][k] = uint32(r[k])
		}
	}
	return m, nil
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

func (m *Mesh) FaceNormal(f int) vec3.T {
	face := m.Faces[f]
	return faceNormal(&m.Positions[face[0]], &m.Positions[face[1]], &m.Positions[face[2]])
}

func faceNormal(pt1, pt2, pt3 *vec3.T) vec3.T {
	sub1 := vec3.Sub(pt2, pt1)
	sub2 := vec3.Sub(pt3, pt1)

	cro := vec3.Cross(&sub1, &sub2)
	l := cro.Length()
	if l == 0 {
		return vec3.T{}
	}
	return *cro.Scale(1 / l)
}

func faceArea(pt1, pt2, pt3 *vec3.T) float32 {
	sub1 := vec3.Sub(pt2, pt1)
	sub2 := vec3.Sub(pt3, pt1)
	cro := vec3.Cross(&sub1, &sub2)
	return cro.Length() / 2
}

func (m *Mesh) GetBoundbox() *[6]float64 {
	minX := math.MaxFloat64
	minY := math.MaxFloat64
	minZ := math.MaxFloat64
	maxX := -math.MaxFloat64
	maxY := -math.MaxFloat64
	maxZ := -math.MaxFloat64
	for i := range m.Positions {
		minX = math.Min(minX, float64(m.Positions[i][0]))
		minY = math.Min(minY, float64(m.Positions[i][1]))
		minZ = math.Min(minZ, float64(m.Positions[i][2]))

		maxX = math.Max(maxX, float64(m.Positions[i][0]))
		maxY = math.Max(maxY, float64(m.Positions[i][1]))
		maxZ = math.Max(maxZ, float64(m.Positions[i][2]))
	}
	return &[6]float64{minX, minY, minZ, maxX, maxY, maxZ}
}

func (m *Mesh) ComputeBBox() dvec3.Box {
	if len(m.Positions) == 0 {
		return dvec3.Box{}
	}
	bx := m.GetBoundbox()
	return dvec3.Box{
		Min: dvec3.T{bx[0], bx[1], bx[2]},
		Max: dvec3.T{bx[3], bx[4], bx[5]},
	}
}

// ToMatrices 转为行优先矩阵, Atlas 的输入形式
func (m *Mesh) ToMatrices() (FloatMatrix, IntMatrix) {
	vs := NewFloatMatrix(len(m.Positions), 3)
	for i, p := range m.Positions {
		copy(vs.Row(i), p[:])
	}
	fs := NewIntMatrix(len(m.Faces), 3)
	for i, f := range m.Faces {
		r := fs.Row(i)
		r[0], r[1], r[2] = int32(f[0]), int32(f[1]), int32(f[2])
	}
	return vs, fs
}

package uvatlas

import (
	"errors"
	"testing"

	"github.com/flywave/go3d/vec3"
)

// unitCube 返回外法线一致的单位立方体, 8 顶点 12 面
func unitCube() *Mesh {
	return &Mesh{
		Positions: []vec3.T{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		},
		Faces: [][3]uint32{
			{0, 2, 1}, {0, 3, 2}, // z=0
			{4, 5, 6}, {4, 6, 7}, // z=1
			{0, 1, 5}, {0, 5, 4}, // y=0
			{3, 7, 6}, {3, 6, 2}, // y=1
			{0, 4, 7}, {0, 7, 3}, // x=0
			{1, 2, 6}, {1, 6, 5}, // x=1
		},
	}
}

func singleTriangle() *Mesh {
	return &Mesh{
		Positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:     [][3]uint32{{0, 1, 2}},
	}
}

// bowtieMesh 两个三角形只共享顶点 0
func bowtieMesh() *Mesh {
	return &Mesh{
		Positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {-1, 0, 0}, {-1, -1, 0}},
		Faces:     [][3]uint32{{0, 1, 2}, {0, 3, 4}},
	}
}

// TestMeshFromMatrices 测试矩阵到网格的复制与形状检查
func TestMeshFromMatrices(t *testing.T) {
	vs := FloatMatrix{Rows: 3, Cols: 3, Data: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}}
	fs := IntMatrix{Rows: 1, Cols: 3, Data: []int32{0, 1, 2}}

	m, err := MeshFromMatrices(vs, fs)
	if err != nil {
		t.Fatalf("MeshFromMatrices failed: %v", err)
	}
	if m.VertexCount() != 3 || m.FaceCount() != 1 {
		t.Fatalf("expected 3 vertices 1 face, got %d/%d", m.VertexCount(), m.FaceCount())
	}
	if m.Positions[1] != (vec3.T{1, 0, 0}) {
		t.Errorf("unexpected position %v", m.Positions[1])
	}
	// 复制而非共享调用方缓冲
	vs.Data[3] = 9
	if m.Positions[1][0] != 1 {
		t.Error("mesh shares memory with caller matrix")
	}

	tests := []struct {
		name string
		vs   FloatMatrix
		fs   IntMatrix
	}{
		{"vertex cols", FloatMatrix{Rows: 3, Cols: 2, Data: make([]float32, 6)}, fs},
		{"vertex data", FloatMatrix{Rows: 3, Cols: 3, Data: make([]float32, 8)}, fs},
		{"face cols", vs, IntMatrix{Rows: 1, Cols: 4, Data: make([]int32, 4)}},
		{"negative index", vs, IntMatrix{Rows: 1, Cols: 3, Data: []int32{0, -1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := MeshFromMatrices(tt.vs, tt.fs); !errors.Is(err, ErrAdjacency) {
				t.Errorf("expected ErrAdjacency, got %v", err)
			}
		})
	}
}

// TestMeshToMatrices 测试网格与矩阵互转
func TestMeshToMatrices(t *testing.T) {
	m := unitCube()
	vs, fs := m.ToMatrices()
	if vs.Rows != 8 || vs.Cols != 3 {
		t.Fatalf("expected 8x3 vertices, got %dx%d", vs.Rows, vs.Cols)
	}
	if fs.Rows != 12 || fs.Cols != 3 {
		t.Fatalf("expected 12x3 faces, got %dx%d", fs.Rows, fs.Cols)
	}
	back, err := MeshFromMatrices(vs, fs)
	if err != nil {
		t.Fatalf("MeshFromMatrices failed: %v", err)
	}
	for i := range m.Faces {
		if back.Faces[i] != m.Faces[i] {
			t.Errorf("face %d: expected %v, got %v", i, m.Faces[i], back.Faces[i])
		}
	}
	if fs.At(2, 1) != 5 {
		t.Errorf("expected At(2,1)=5, got %d", fs.At(2, 1))
	}
}

// TestMeshBoundingBox 测试包围盒
func TestMeshBoundingBox(t *testing.T) {
	box := unitCube().ComputeBBox()
	for i := 0; i < 3; i++ {
		if box.Min[i] != 0 || box.Max[i] != 1 {
			t.Errorf("axis %d: expected [0,1], got [%f,%f]", i, box.Min[i], box.Max[i])
		}
	}
	empty := (&Mesh{}).ComputeBBox()
	if empty.Min != empty.Max {
		t.Errorf("expected zero box for empty mesh, got %v", empty)
	}
}

// TestFaceNormal 测试面法线与退化面
func TestFaceNormal(t *testing.T) {
	n := singleTriangle().FaceNormal(0)
	if n != vec3.UnitZ {
		t.Errorf("expected +Z normal, got %v", n)
	}
	p := vec3.T{1, 1, 1}
	if z := faceNormal(&p, &p, &p); z != (vec3.T{}) {
		t.Errorf("expected zero normal for degenerate face, got %v", z)
	}
	a, b, c := vec3.T{0, 0, 0}, vec3.T{2, 0, 0}, vec3.T{0, 2, 0}
	if area := faceArea(&a, &b, &c); area != 2 {
		t.Errorf("expected area 2, got %f", area)
	}
}

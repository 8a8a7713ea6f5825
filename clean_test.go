package uvatlas

import (
	"errors"
	"testing"

	"github.com/flywave/go3d/vec3"
)

// TestCleanIdempotent 测试无缺陷网格清理后不变
func TestCleanIdempotent(t *testing.T) {
	for _, m := range []*Mesh{singleTriangle(), unitCube()} {
		faces, dups, err := Clean(m.Faces, m.VertexCount(), mustAdjacency(t, m), true)
		if err != nil {
			t.Fatalf("Clean failed: %v", err)
		}
		if len(dups) != 0 {
			t.Errorf("expected no duplicates, got %v", dups)
		}
		for f := range m.Faces {
			if faces[f] != m.Faces[f] {
				t.Errorf("face %d changed: %v -> %v", f, m.Faces[f], faces[f])
			}
		}
	}
}

// TestCleanBowtie 测试蝴蝶结顶点被拆分为一个新顶点
func TestCleanBowtie(t *testing.T) {
	m := bowtieMesh()
	orig := append([][3]uint32(nil), m.Faces...)

	faces, dups, err := Clean(m.Faces, m.VertexCount(), mustAdjacency(t, m), true)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(dups) != 1 || dups[0] != 0 {
		t.Fatalf("expected duplication list [0], got %v", dups)
	}
	if faces[0] != ([3]uint32{0, 1, 2}) {
		t.Errorf("first fan should keep vertex 0, got %v", faces[0])
	}
	if faces[1] != ([3]uint32{5, 3, 4}) {
		t.Errorf("second fan should use vertex 5, got %v", faces[1])
	}
	for f := range orig {
		if m.Faces[f] != orig[f] {
			t.Errorf("input face %d was modified", f)
		}
	}

	// 再次清理已拆分的网格不再产生副本
	ext, err := ExtendPositions(m.Positions, dups)
	if err != nil {
		t.Fatalf("ExtendPositions failed: %v", err)
	}
	adj, _, err := GenerateAdjacency(ext, faces, 0)
	if err != nil {
		t.Fatalf("GenerateAdjacency failed: %v", err)
	}
	again, dups2, err := Clean(faces, len(ext), adj, true)
	if err != nil {
		t.Fatalf("second Clean failed: %v", err)
	}
	if len(dups2) != 0 {
		t.Errorf("expected no duplicates on second pass, got %v", dups2)
	}
	for f := range faces {
		if again[f] != faces[f] {
			t.Errorf("face %d changed on second pass", f)
		}
	}
}

// TestCleanWithoutBreaking 测试关闭拆分
func TestCleanWithoutBreaking(t *testing.T) {
	m := bowtieMesh()
	_, dups, err := Clean(m.Faces, m.VertexCount(), mustAdjacency(t, m), false)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(dups) != 0 {
		t.Errorf("expected no duplicates, got %v", dups)
	}
}

// TestCleanErrors 测试非法输入
func TestCleanErrors(t *testing.T) {
	m := bowtieMesh()
	if _, _, err := Clean(m.Faces, m.VertexCount(), Adjacency{{U, U, U}}, true); !errors.Is(err, ErrClean) {
		t.Errorf("expected ErrClean for adjacency mismatch, got %v", err)
	}
	if _, _, err := Clean(m.Faces, 3, nil, true); !errors.Is(err, ErrClean) {
		t.Errorf("expected ErrClean for out of range face, got %v", err)
	}
}

// TestExtendPositions 测试按复制列表追加顶点
func TestExtendPositions(t *testing.T) {
	positions := []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

	ext, err := ExtendPositions(positions, []uint32{2, 0})
	if err != nil {
		t.Fatalf("ExtendPositions failed: %v", err)
	}
	if len(ext) != 5 {
		t.Fatalf("expected 5 positions, got %d", len(ext))
	}
	if ext[3] != positions[2] || ext[4] != positions[0] {
		t.Errorf("unexpected copies %v %v", ext[3], ext[4])
	}

	if _, err := ExtendPositions(positions, []uint32{3}); !errors.Is(err, ErrClean) {
		t.Errorf("expected ErrClean, got %v", err)
	}
}

// TestResolveOriginal 测试新顶点映射回原始顶点
func TestResolveOriginal(t *testing.T) {
	dups := []uint32{4, 1}
	tests := []struct {
		v, want uint32
	}{
		{0, 0}, {4, 4}, {5, 4}, {6, 1},
	}
	for _, tt := range tests {
		if got := resolveOriginal(tt.v, 5, dups); got != tt.want {
			t.Errorf("resolveOriginal(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

package uvatlas

import (
	"errors"
	"math"
	"testing"

	"github.com/flywave/go3d/vec3"
)

const U = Unused

// TestGenerateAdjacency 测试基本网格的边相邻关系
func TestGenerateAdjacency(t *testing.T) {
	tests := []struct {
		name      string
		positions []vec3.T
		faces     [][3]uint32
		epsilon   float32
		want      Adjacency
	}{
		{
			name:      "single triangle",
			positions: singleTriangle().Positions,
			faces:     singleTriangle().Faces,
			want:      Adjacency{{U, U, U}},
		},
		{
			name:      "quad",
			positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			faces:     [][3]uint32{{0, 1, 2}, {0, 2, 3}},
			want:      Adjacency{{U, U, 1}, {0, U, U}},
		},
		{
			name:      "split quad without epsilon",
			positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0.0001, 0, 0}, {1, 1.0001, 0}},
			faces:     [][3]uint32{{0, 1, 2}, {4, 5, 3}},
			want:      Adjacency{{U, U, U}, {U, U, U}},
		},
		{
			name:      "split quad merged by epsilon",
			positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0.0001, 0, 0}, {1, 1.0001, 0}},
			faces:     [][3]uint32{{0, 1, 2}, {4, 5, 3}},
			epsilon:   0.001,
			want:      Adjacency{{U, U, 1}, {0, U, U}},
		},
		{
			name:      "degenerate face has no neighbors",
			positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			faces:     [][3]uint32{{0, 0, 1}, {0, 1, 2}},
			want:      Adjacency{{U, U, U}, {U, U, U}},
		},
		{
			name:      "non-manifold edge pairs opposite faces",
			positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}},
			faces:     [][3]uint32{{0, 1, 2}, {1, 0, 3}, {0, 1, 4}},
			want:      Adjacency{{1, U, U}, {0, U, U}, {U, U, U}},
		},
		{
			name: "empty",
			want: Adjacency{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj, reps, err := GenerateAdjacency(tt.positions, tt.faces, tt.epsilon)
			if err != nil {
				t.Fatalf("GenerateAdjacency failed: %v", err)
			}
			if len(reps) != len(tt.positions) {
				t.Errorf("expected %d point reps, got %d", len(tt.positions), len(reps))
			}
			if len(adj) != len(tt.want) {
				t.Fatalf("expected %d entries, got %d", len(tt.want), len(adj))
			}
			for f := range tt.want {
				if adj[f] != tt.want[f] {
					t.Errorf("face %d: expected %v, got %v", f, tt.want[f], adj[f])
				}
			}
		})
	}
}

// TestGenerateAdjacencyCube 测试封闭网格每条边都有相邻面且对称
func TestGenerateAdjacencyCube(t *testing.T) {
	m := unitCube()
	adj, _, err := GenerateAdjacency(m.Positions, m.Faces, 0)
	if err != nil {
		t.Fatalf("GenerateAdjacency failed: %v", err)
	}
	for f := range adj {
		for e := 0; e < 3; e++ {
			n := adj[f][e]
			if n == Unused {
				t.Fatalf("face %d edge %d has no neighbor", f, e)
			}
			if sharedEdge(adj, n, uint32(f)) < 0 {
				t.Errorf("face %d -> %d is not symmetric", f, n)
			}
		}
	}
}

// TestGenerateAdjacencyErrors 测试非法输入
func TestGenerateAdjacencyErrors(t *testing.T) {
	positions := []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}

	tests := []struct {
		name    string
		faces   [][3]uint32
		epsilon float32
	}{
		{"index out of range", [][3]uint32{{0, 1, 5}}, 0},
		{"negative epsilon", [][3]uint32{{0, 1, 2}}, -1},
		{"nan epsilon", [][3]uint32{{0, 1, 2}}, float32(math.NaN())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := GenerateAdjacency(positions, tt.faces, tt.epsilon); !errors.Is(err, ErrAdjacency) {
				t.Errorf("expected ErrAdjacency, got %v", err)
			}
		})
	}
}

// TestGeneratePointReps 测试重合点合并, 代表点为最先出现的顶点
func TestGeneratePointReps(t *testing.T) {
	positions := []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 0, 0}, {1, 0.0005, 0}, {5, 5, 5}}

	exact := GeneratePointReps(positions, 0)
	wantExact := PointReps{0, 1, 0, 3, 4}
	for i := range wantExact {
		if exact[i] != wantExact[i] {
			t.Errorf("epsilon 0: vertex %d expected rep %d, got %d", i, wantExact[i], exact[i])
		}
	}

	near := GeneratePointReps(positions, 0.001)
	wantNear := PointReps{0, 1, 0, 1, 4}
	for i := range wantNear {
		if near[i] != wantNear[i] {
			t.Errorf("epsilon 0.001: vertex %d expected rep %d, got %d", i, wantNear[i], near[i])
		}
	}
}

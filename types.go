package uvatlas

const RESULT_SIGNATURE string = "fwua"
const RESULTEXT string = ".uva"
const V1 uint32 = 1
const V2 uint32 = 2

// Unused 邻接表中表示"无相邻面"的哨兵值
const Unused uint32 = 0xFFFFFFFF

const (
	DEFAULT_MAX_CHARTS  = 0
	DEFAULT_MAX_STRETCH = 0.16667
	DEFAULT_GUTTER      = 2.0
	DEFAULT_WIDTH       = 512
	DEFAULT_HEIGHT      = 512
)

// ValidateFlags 拓扑校验选项
type ValidateFlags uint32

const (
	ValidateDefault    ValidateFlags = 0
	ValidateBackfacing ValidateFlags = 1 << iota
	ValidateBowties
	ValidateDegenerate
	ValidateAsymmetricAdjacency
	ValidateUnused
)

// Adjacency 每个面三条边对应的相邻面索引, 边 k 为 (f[k], f[(k+1)%3])
type Adjacency [][3]uint32

// PointReps 每个顶点的代表顶点索引
type PointReps []uint32

// IntMatrix 行优先整型矩阵
type IntMatrix struct {
	Rows int     `json:"rows"`
	Cols int     `json:"cols"`
	Data []int32 `json:"data"`
}

// FloatMatrix 行优先浮点矩阵
type FloatMatrix struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float32 `json:"data"`
}

func NewIntMatrix(rows, cols int) IntMatrix {
	return IntMatrix{Rows: rows, Cols: cols, Data: make([]int32, rows*cols)}
}

func NewFloatMatrix(rows, cols int) FloatMatrix {
	return FloatMatrix{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

func (m IntMatrix) At(r, c int) int32 {
	return m.Data[r*m.Cols+c]
}

func (m IntMatrix) Row(r int) []int32 {
	return m.Data[r*m.Cols : (r+1)*m.Cols]
}

func (m IntMatrix) valid() bool {
	return m.Rows >= 0 && m.Cols >= 0 && len(m.Data) == m.Rows*m.Cols
}

func (m FloatMatrix) At(r, c int) float32 {
	return m.Data[r*m.Cols+c]
}

func (m FloatMatrix) Row(r int) []float32 {
	return m.Data[r*m.Cols : (r+1)*m.Cols]
}

func (m FloatMatrix) valid() bool {
	return m.Rows >= 0 && m.Cols >= 0 && len(m.Data) == m.Rows*m.Cols
}

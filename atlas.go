package uvatlas

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Pipeline 邻接 -> 校验 -> 清理 -> 图表生成 -> 打包
//
// Pipeline 不持有跨调用状态, 同一实例可被并发调用.
type Pipeline struct {
	Generator   ChartGenerator
	Logger      *zap.Logger
	Diagnostics func(msg string)
}

func NewPipeline(gen ChartGenerator, logger *zap.Logger) *Pipeline {
	return &Pipeline{Generator: gen, Logger: logger}
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p *Pipeline) warn(msg string) {
	if p.Diagnostics != nil {
		p.Diagnostics(msg)
		return
	}
	p.logger().Warn(msg)
}

// Run 执行整个流水线, 任一阶段失败都返回 EmptyResult 与错误
func (p *Pipeline) Run(ctx context.Context, m *Mesh, opts Options) (*PackedResult, error) {
	res, err := p.run(ctx, m, opts)
	if err != nil {
		p.logger().Error("atlas failed", zap.Error(err))
		return EmptyResult(), err
	}
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, m *Mesh, opts Options) (*PackedResult, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil mesh", ErrAdjacency)
	}
	if err := opts.Check(); err != nil {
		return nil, err
	}
	if p.Generator == nil {
		return nil, fmt.Errorf("%w: no chart generator", ErrChart)
	}
	log := p.logger()
	nVerts, nFaces := len(m.Positions), len(m.Faces)

	log.Debug("generating adjacency", zap.Int("vertices", nVerts), zap.Int("faces", nFaces))
	adj, _, err := GenerateAdjacency(m.Positions, m.Faces, opts.Epsilon)
	if err != nil {
		return nil, err
	}

	log.Debug("validating", zap.Stringer("flags", opts.Validate))
	msgs, err := Validate(m.Faces, m.Positions, adj, opts.Validate)
	if err != nil {
		return nil, err
	}
	for _, msg := range msgs {
		p.warn(msg)
	}

	log.Debug("cleaning", zap.Bool("breakBowties", opts.BreakBowties))
	faces, dups, err := Clean(m.Faces, nVerts, adj, opts.BreakBowties)
	if err != nil {
		return nil, err
	}
	positions := m.Positions
	if len(dups) > 0 {
		if positions, err = ExtendPositions(m.Positions, dups); err != nil {
			return nil, err
		}
		log.Debug("split bowtie vertices", zap.Int("duplicates", len(dups)), zap.Int("vertices", len(positions)))
		if adj, _, err = GenerateAdjacency(positions, faces, opts.Epsilon); err != nil {
			return nil, err
		}
	}

	log.Debug("computing atlas", zap.Int("maxCharts", opts.MaxCharts), zap.Float32("maxStretch", opts.MaxStretch))
	chart, err := p.Generator.Generate(ctx, &ChartInput{
		Positions:  positions,
		Faces:      faces,
		Adjacency:  adj,
		MaxCharts:  opts.MaxCharts,
		MaxStretch: opts.MaxStretch,
		Width:      opts.Width,
		Height:     opts.Height,
		Gutter:     opts.Gutter,
	})
	if err != nil {
		if errors.Is(err, ErrChart) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrChart, err)
	}
	if chart == nil {
		return nil, fmt.Errorf("%w: generator returned no result", ErrChart)
	}
	log.Info("atlas created",
		zap.Int("charts", chart.Charts),
		zap.Float32("stretch", chart.Stretch),
		zap.Int("vertices", len(chart.Vertices)))

	out, err := Pack(chart, nFaces, nVerts, dups, opts.FaceCharts)
	if err != nil {
		return nil, err
	}
	out.Warnings = msgs
	return out, nil
}

// Atlas 以矩阵为边界的调用形式, 失败时返回三个空容器而不是错误
func Atlas(ctx context.Context, gen ChartGenerator, vertices FloatMatrix, faces IntMatrix, opts ...Option) ([]int32, IntMatrix, FloatMatrix) {
	return AtlasWithLogger(ctx, gen, nil, vertices, faces, opts...)
}

func AtlasWithLogger(ctx context.Context, gen ChartGenerator, logger *zap.Logger, vertices FloatMatrix, faces IntMatrix, opts ...Option) ([]int32, IntMatrix, FloatMatrix) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := NewPipeline(gen, logger)
	m, err := MeshFromMatrices(vertices, faces)
	if err != nil {
		p.logger().Error("atlas failed", zap.Error(err))
		e := EmptyResult()
		return e.Remap, e.Faces, e.UV
	}
	res, _ := p.Run(ctx, m, o)
	return res.Remap, res.Faces, res.UV
}

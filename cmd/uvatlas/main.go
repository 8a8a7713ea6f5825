// uvatlas 为三角网格生成 UV 图集的命令行工具
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	uvatlas "github.com/flywave/go-uvatlas"
	"github.com/flywave/go-uvatlas/internal/config"
	"github.com/flywave/go-uvatlas/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "unwrap":
		err = cmdUnwrap(args)
	case "validate":
		err = cmdValidate(args)
	case "preview":
		err = cmdPreview(args)
	case "info":
		err = cmdInfo(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`uvatlas - UV atlas generation for triangle meshes

Usage:
  uvatlas <command> [options]

Commands:
  unwrap [flags] <in.gltf|glb> <out.glb>    Generate an atlas and export the unwrapped mesh
  validate [flags] <in.gltf|glb>            Report topology diagnostics
  preview [flags] <in.gltf|glb> <out.png>   Render the UV layout (png, bmp, tiff)
  info <in.gltf|glb>                        Show mesh statistics
  config <out.yaml>                         Write the default configuration

Examples:
  uvatlas unwrap -width 1024 -height 1024 model.glb model_uv.glb
  uvatlas unwrap -bin model.uva model.glb model_uv.glb
  uvatlas validate -checks all model.glb
  uvatlas preview -thumb 256 model.glb layout.png`)
}

// commonFlags 各子命令共享的参数
type commonFlags struct {
	config  *string
	debug   *bool
	logFile *string
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		config:  fs.String("config", "", "Path to config file"),
		debug:   fs.Bool("debug", false, "Enable debug logging"),
		logFile: fs.String("log", "", "Write logs to a rotating file"),
	}
}

type atlasFlags struct {
	maxCharts  *int
	maxStretch *float64
	gutter     *float64
	width      *int
	height     *int
	epsilon    *float64
	checks     *string
	simplify   *float64
}

func addAtlasFlags(fs *flag.FlagSet) *atlasFlags {
	return &atlasFlags{
		maxCharts:  fs.Int("charts", -1, "Maximum number of charts (0 = unbounded)"),
		maxStretch: fs.Float64("stretch", -1, "Maximum stretch in [0,1]"),
		gutter:     fs.Float64("gutter", -1, "Gutter between charts in texels"),
		width:      fs.Int("width", 0, "Atlas width in texels"),
		height:     fs.Int("height", 0, "Atlas height in texels"),
		epsilon:    fs.Float64("epsilon", -1, "Position merge tolerance for adjacency"),
		checks:     fs.String("checks", "", "Validation checks (backfacing,bowties,degenerate,asymmetric,unused,all)"),
		simplify:   fs.Float64("simplify", 0, "Keep this fraction of faces before unwrapping"),
	}
}

// load 读取配置并应用命令行覆盖, 然后初始化日志
func load(cf *commonFlags, af *atlasFlags) (*config.Config, error) {
	cfg, err := config.Load(*cf.config)
	if err != nil {
		return nil, err
	}
	if *cf.debug {
		cfg.Logging.Level = "debug"
	}
	if *cf.logFile != "" {
		cfg.Logging.LogFile = *cf.logFile
	}
	if af != nil {
		if *af.maxCharts >= 0 {
			cfg.Atlas.MaxCharts = *af.maxCharts
		}
		if *af.maxStretch >= 0 {
			cfg.Atlas.MaxStretch = float32(*af.maxStretch)
		}
		if *af.gutter >= 0 {
			cfg.Atlas.Gutter = float32(*af.gutter)
		}
		if *af.width > 0 {
			cfg.Atlas.Width = *af.width
		}
		if *af.height > 0 {
			cfg.Atlas.Height = *af.height
		}
		if *af.epsilon >= 0 {
			cfg.Atlas.Epsilon = float32(*af.epsilon)
		}
		if *af.checks != "" {
			flags, err := uvatlas.ParseValidateFlags(*af.checks)
			if err != nil {
				return nil, err
			}
			cfg.Atlas.Validate = flags
		}
		if *af.simplify > 0 {
			cfg.Input.Simplify = *af.simplify
		}
		if err := cfg.Atlas.Check(); err != nil {
			return nil, err
		}
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadMesh(path string, cfg *config.Config) (*uvatlas.Mesh, error) {
	m, err := uvatlas.LoadGltf(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if cfg.Input.Simplify > 0 && cfg.Input.Simplify < 1 {
		before := m.FaceCount()
		if m, err = uvatlas.Simplify(m, cfg.Input.Simplify); err != nil {
			return nil, err
		}
		logger.Log.Info("simplified", zap.Int("faces", before), zap.Int("remaining", m.FaceCount()))
	}
	return m, nil
}

// unwrap 执行流水线, Ctrl-C 取消图表生成
func unwrap(path string, m *uvatlas.Mesh, cfg *config.Config) (*uvatlas.PackedResult, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := uvatlas.NewPipeline(uvatlas.NewPlanarCharter(), logger.Named("atlas"))
	p.Diagnostics = logger.DiagnosticSink(filepath.Base(path))
	return p.Run(ctx, m, cfg.Atlas)
}

func cmdUnwrap(args []string) error {
	fs := flag.NewFlagSet("unwrap", flag.ExitOnError)
	cf := addCommonFlags(fs)
	af := addAtlasFlags(fs)
	binOut := fs.String("bin", "", "Also write the packed result container")
	fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: uvatlas unwrap [flags] <in.gltf|glb> <out.glb>")
	}
	cfg, err := load(cf, af)
	if err != nil {
		return err
	}
	in, out := fs.Arg(0), fs.Arg(1)
	m, err := loadMesh(in, cfg)
	if err != nil {
		return err
	}
	res, err := unwrap(in, m, cfg)
	if err != nil {
		return err
	}

	doc := uvatlas.CreateDoc()
	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	if err := uvatlas.BuildGltf(doc, m.Positions, res, name); err != nil {
		return err
	}
	bt, err := uvatlas.GetGltfBinary(doc, 8)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, bt, 0644); err != nil {
		return err
	}
	if *binOut != "" {
		if err := uvatlas.ResultWriteTo(*binOut, res); err != nil {
			return err
		}
	}

	fmt.Printf("Output # of charts: %d, resulting stretching %f, %d verts\n", res.Charts, res.Stretch, res.VertexCount())
	return nil
}

func cmdValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cf := addCommonFlags(fs)
	af := addAtlasFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: uvatlas validate [flags] <in.gltf|glb>")
	}
	cfg, err := load(cf, af)
	if err != nil {
		return err
	}
	m, err := loadMesh(fs.Arg(0), cfg)
	if err != nil {
		return err
	}
	adj, _, err := uvatlas.GenerateAdjacency(m.Positions, m.Faces, cfg.Atlas.Epsilon)
	if err != nil {
		return err
	}
	msgs, err := uvatlas.Validate(m.Faces, m.Positions, adj, cfg.Atlas.Validate)
	if err != nil {
		return err
	}
	_, dups, err := uvatlas.Clean(m.Faces, m.VertexCount(), adj, cfg.Atlas.BreakBowties)
	if err != nil {
		return err
	}

	fmt.Printf("Mesh:        %s\n", fs.Arg(0))
	fmt.Printf("Checks:      %s\n", cfg.Atlas.Validate)
	fmt.Printf("Diagnostics: %d\n", len(msgs))
	for _, msg := range msgs {
		fmt.Printf("  %s\n", msg)
	}
	fmt.Printf("Cleaning would add %d vertices\n", len(dups))
	return nil
}

func cmdPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	cf := addCommonFlags(fs)
	af := addAtlasFlags(fs)
	thumb := fs.Uint("thumb", 0, "Downscale the preview to fit in N×N pixels")
	fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: uvatlas preview [flags] <in.gltf|glb> <out.png|bmp|tiff>")
	}
	cfg, err := load(cf, af)
	if err != nil {
		return err
	}
	if *thumb > 0 {
		cfg.Preview.Thumbnail = *thumb
	}
	cfg.Atlas.FaceCharts = true

	in, out := fs.Arg(0), fs.Arg(1)
	m, err := loadMesh(in, cfg)
	if err != nil {
		return err
	}
	res, err := unwrap(in, m, cfg)
	if err != nil {
		return err
	}

	var img image.Image = uvatlas.RenderLayout(res, cfg.Atlas.Width, cfg.Atlas.Height)
	if cfg.Preview.Thumbnail > 0 {
		img = uvatlas.Thumbnail(img, cfg.Preview.Thumbnail)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	return uvatlas.EncodeImage(f, img, uvatlas.FormatFromPath(out))
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: uvatlas info <in.gltf|glb>")
	}
	m, err := uvatlas.LoadGltf(args[0])
	if err != nil {
		return err
	}
	box := m.ComputeBBox()
	fmt.Printf("Mesh:     %s\n", args[0])
	fmt.Printf("Vertices: %d\n", m.VertexCount())
	fmt.Printf("Faces:    %d\n", m.FaceCount())
	fmt.Printf("Bounds:   (%.4f, %.4f, %.4f) - (%.4f, %.4f, %.4f)\n",
		box.Min[0], box.Min[1], box.Min[2], box.Max[0], box.Max[1], box.Max[2])
	return nil
}

func cmdConfig(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: uvatlas config <out.yaml>")
	}
	return config.Default().SaveTo(args[0])
}

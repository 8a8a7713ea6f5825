package uvatlas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Options 图集生成参数, MaxCharts 与 MaxStretch 原样传给 ChartGenerator
type Options struct {
	MaxCharts    int           `yaml:"max_charts" json:"maxCharts" validate:"gte=0"`
	MaxStretch   float32       `yaml:"max_stretch" json:"maxStretch" validate:"gte=0,lte=1"`
	Gutter       float32       `yaml:"gutter" json:"gutter" validate:"gte=0"`
	Width        int           `yaml:"width" json:"width" validate:"gte=1"`
	Height       int           `yaml:"height" json:"height" validate:"gte=1"`
	Epsilon      float32       `yaml:"epsilon" json:"epsilon" validate:"gte=0"`
	BreakBowties bool          `yaml:"break_bowties" json:"breakBowties"`
	Validate     ValidateFlags `yaml:"validate" json:"validate"`
	FaceCharts   bool          `yaml:"face_charts" json:"faceCharts"`
}

func DefaultOptions() Options {
	return Options{
		MaxCharts:    DEFAULT_MAX_CHARTS,
		MaxStretch:   DEFAULT_MAX_STRETCH,
		Gutter:       DEFAULT_GUTTER,
		Width:        DEFAULT_WIDTH,
		Height:       DEFAULT_HEIGHT,
		BreakBowties: true,
		Validate:     ValidateBackfacing | ValidateBowties,
	}
}

var validate = validator.New()

// Check 校验参数范围
func (o *Options) Check() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s=%s, got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		}
		return fmt.Errorf("%w: %s", ErrOptions, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", ErrOptions, err)
}

type Option func(*Options)

func WithMaxCharts(n int) Option {
	return func(o *Options) { o.MaxCharts = n }
}

func WithMaxStretch(s float32) Option {
	return func(o *Options) { o.MaxStretch = s }
}

func WithGutter(g float32) Option {
	return func(o *Options) { o.Gutter = g }
}

func WithSize(width, height int) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

func WithEpsilon(eps float32) Option {
	return func(o *Options) { o.Epsilon = eps }
}

func WithFaceCharts(enable bool) Option {
	return func(o *Options) { o.FaceCharts = enable }
}

func WithValidate(flags ValidateFlags) Option {
	return func(o *Options) { o.Validate = flags }
}

// ParseValidateFlags 解析逗号分隔的校验项, 如 "backfacing,bowties"
func ParseValidateFlags(s string) (ValidateFlags, error) {
	var flags ValidateFlags
	for _, name := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "", "default":
		case "backfacing":
			flags |= ValidateBackfacing
		case "bowties", "bowtie":
			flags |= ValidateBowties
		case "degenerate":
			flags |= ValidateDegenerate
		case "asymmetric":
			flags |= ValidateAsymmetricAdjacency
		case "unused":
			flags |= ValidateUnused
		case "all":
			flags |= ValidateBackfacing | ValidateBowties | ValidateDegenerate | ValidateAsymmetricAdjacency | ValidateUnused
		default:
			return 0, fmt.Errorf("%w: unknown validate flag %q", ErrOptions, name)
		}
	}
	return flags, nil
}

func (f ValidateFlags) String() string {
	var names []string
	if f&ValidateBackfacing != 0 {
		names = append(names, "backfacing")
	}
	if f&ValidateBowties != 0 {
		names = append(names, "bowties")
	}
	if f&ValidateDegenerate != 0 {
		names = append(names, "degenerate")
	}
	if f&ValidateAsymmetricAdjacency != 0 {
		names = append(names, "asymmetric")
	}
	if f&ValidateUnused != 0 {
		names = append(names, "unused")
	}
	if len(names) == 0 {
		return "default"
	}
	return strings.Join(names, ",")
}

func (f ValidateFlags) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

func (f *ValidateFlags) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseValidateFlags(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

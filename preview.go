package uvatlas

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var (
	previewBackground = color.RGBA{16, 16, 16, 255}
	previewEdge       = color.RGBA{235, 235, 235, 255}
)

// RenderLayout 把图集 UV 布局光栅化为 width×height 的图像, 每个图表一种颜色
func RenderLayout(res *PackedResult, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: previewBackground}, image.Point{}, draw.Src)
	if res == nil || res.IsEmpty() {
		return img
	}

	toPixel := func(v int32) (float64, float64) {
		row := res.UV.Row(int(v))
		return float64(row[0]) * float64(width), float64(row[1]) * float64(height)
	}
	valid := func(tri []int32) bool {
		for _, v := range tri {
			if v < 0 || int(v) >= res.UV.Rows {
				return false
			}
		}
		return true
	}
	for f := 0; f < res.Faces.Rows; f++ {
		tri := res.Faces.Row(f)
		if !valid(tri) {
			continue
		}
		var chart int32
		if res.FaceCharts != nil {
			chart = res.FaceCharts[f]
		}
		x0, y0 := toPixel(tri[0])
		x1, y1 := toPixel(tri[1])
		x2, y2 := toPixel(tri[2])
		fillTriangle(img, x0, y0, x1, y1, x2, y2, chartColor(chart))
	}
	for f := 0; f < res.Faces.Rows; f++ {
		tri := res.Faces.Row(f)
		if !valid(tri) {
			continue
		}
		for k := 0; k < 3; k++ {
			xa, ya := toPixel(tri[k])
			xb, yb := toPixel(tri[(k+1)%3])
			drawLine(img, xa, ya, xb, yb, previewEdge)
		}
	}
	return img
}

// Thumbnail 等比缩放到 maxSize 以内
func Thumbnail(img image.Image, maxSize uint) image.Image {
	return resize.Thumbnail(maxSize, maxSize, img, resize.Lanczos3)
}

// EncodeImage 按格式 png/bmp/tiff 编码
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "png", "":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.New("not support image type")
	}
}

func FormatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func chartColor(id int32) color.RGBA {
	// 黄金角分布色相
	h := math.Mod(float64(id)*0.618033988749895, 1)
	r, g, b := hsvToRGB(h, 0.55, 0.8)
	return color.RGBA{r, g, b, 255}
}

func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}

func fillTriangle(img *image.RGBA, x0, y0, x1, y1, x2, y2 float64, c color.RGBA) {
	b := img.Bounds()
	minX := int(math.Max(math.Floor(math.Min(x0, math.Min(x1, x2))), float64(b.Min.X)))
	maxX := int(math.Min(math.Ceil(math.Max(x0, math.Max(x1, x2))), float64(b.Max.X-1)))
	minY := int(math.Max(math.Floor(math.Min(y0, math.Min(y1, y2))), float64(b.Min.Y)))
	maxY := int(math.Min(math.Ceil(math.Max(y0, math.Max(y1, y2))), float64(b.Max.Y-1)))
	area := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
	if area == 0 {
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := ((x1-px)*(y2-py) - (x2-px)*(y1-py)) / area
			w1 := ((x2-px)*(y0-py) - (x0-px)*(y2-py)) / area
			w2 := 1 - w0 - w1
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 float64, c color.RGBA) {
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(x0 + (x1-x0)*t)
		y := int(y0 + (y1-y0)*t)
		if image.Pt(x, y).In(img.Bounds()) {
			img.SetRGBA(x, y, c)
		}
	}
}

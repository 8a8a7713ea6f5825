package uvatlas

import (
	"fmt"
	"sort"
)

type chartRect struct {
	w, h float64 // 图表在投影平面中的尺寸
	x, y float64 // 放置后的像素坐标
}

// packCharts 以统一缩放比例按行(shelf)排布图表, 图表之间保留 gutter 像素间隔
//
// 返回像素/世界单位的缩放比例, rects 的 x, y 被填充.
func packCharts(rects []chartRect, width, height int, gutter float64) (float64, error) {
	if len(rects) == 0 {
		return 0, nil
	}
	order := make([]int, len(rects))
	maxExtent := 0.0
	for i := range rects {
		order[i] = i
		if rects[i].w > maxExtent {
			maxExtent = rects[i].w
		}
		if rects[i].h > maxExtent {
			maxExtent = rects[i].h
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return rects[order[i]].h > rects[order[j]].h
	})

	W, H := float64(width), float64(height)
	if !shelfFits(rects, order, 0, W, H, gutter, false) {
		return 0, fmt.Errorf("%w: %d charts with gutter %v do not fit in %dx%d", ErrChart, len(rects), gutter, width, height)
	}
	if maxExtent == 0 {
		shelfFits(rects, order, 0, W, H, gutter, true)
		return 0, nil
	}

	lo, hi := 0.0, minf(W, H)/maxExtent
	if shelfFits(rects, order, hi, W, H, gutter, false) {
		lo = hi
	} else {
		for i := 0; i < 40; i++ {
			mid := (lo + hi) / 2
			if shelfFits(rects, order, mid, W, H, gutter, false) {
				lo = mid
			} else {
				hi = mid
			}
		}
	}
	shelfFits(rects, order, lo, W, H, gutter, true)
	return lo, nil
}

func shelfFits(rects []chartRect, order []int, scale, W, H, gutter float64, place bool) bool {
	half := gutter / 2
	x, y, shelf := 0.0, 0.0, 0.0
	for _, i := range order {
		sw := rects[i].w*scale + gutter
		sh := rects[i].h*scale + gutter
		if sw > W || sh > H {
			return false
		}
		if x+sw > W {
			y += shelf
			x, shelf = 0, 0
		}
		if y+sh > H {
			return false
		}
		if place {
			rects[i].x = x + half
			rects[i].y = y + half
		}
		x += sw
		if sh > shelf {
			shelf = sh
		}
	}
	return true
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

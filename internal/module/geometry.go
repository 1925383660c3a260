package module

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidSize = errors.New("newWidth and newHeight must be positive integers")

type Geometry struct {
	SourceWidth  int
	SourceHeight int
	RatioWidth   decimal.Decimal
	RatioHeight  decimal.Decimal
	Width        int
	Height       int
}

// ScaleToFit 等比缩放，使结果不超出 newWidth x newHeight 的范围：比例较大的一边取边界值，另一边按比例缩放
func ScaleToFit(sourceWidth, sourceHeight, newWidth, newHeight int) (Geometry, error) {
	if newWidth <= 0 || newHeight <= 0 {
		return Geometry{}, ErrInvalidSize
	}
	if sourceWidth <= 0 || sourceHeight <= 0 {
		return Geometry{}, errors.New("source image is empty")
	}

	sw, sh := decimal.NewFromInt(int64(sourceWidth)), decimal.NewFromInt(int64(sourceHeight))
	nw, nh := decimal.NewFromInt(int64(newWidth)), decimal.NewFromInt(int64(newHeight))

	g := Geometry{
		SourceWidth:  sourceWidth,
		SourceHeight: sourceHeight,
		RatioWidth:   sw.Div(nw),
		RatioHeight:  sh.Div(nh),
	}

	// sw / (sh / nh) 与 sw * nh / sh 相等，后者避免了比例值的舍入误差
	if g.RatioWidth.LessThan(g.RatioHeight) {
		g.Width = truncate(sw.Mul(nh).Div(sh))
		g.Height = newHeight
	} else {
		g.Width = newWidth
		g.Height = truncate(sh.Mul(nw).Div(sw))
	}

	return g, nil
}

// 与创建画布时的取整方式一致，向下取整，且至少为 1 像素
func truncate(d decimal.Decimal) int {
	if n := int(d.IntPart()); n > 0 {
		return n
	}
	return 1
}

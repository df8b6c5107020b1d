package transition

import (
	"image"
	"image/color"
	"time"

	"github.com/go-drift/tween/pkg/graphics"
)

func init() {
	Register(FloatStrategy[float64]())
	Register(FloatStrategy[float32]())

	Register(IntegerStrategy[int]())
	Register(IntegerStrategy[int8]())
	Register(IntegerStrategy[int16]())
	Register(IntegerStrategy[int32]())
	Register(IntegerStrategy[int64]())
	Register(IntegerStrategy[uint]())
	Register(IntegerStrategy[uint8]())
	Register(IntegerStrategy[uint16]())
	Register(IntegerStrategy[uint32]())
	Register(IntegerStrategy[uint64]())
	Register(IntegerStrategy[time.Duration]())

	Register(Strategy[graphics.Color]{Step: StepColor, Equal: Exact[graphics.Color]})
	Register(Strategy[color.RGBA]{Step: StepRGBA, Equal: Exact[color.RGBA]})
	Register(Strategy[graphics.Offset]{Step: StepOffset, Equal: graphics.Offset.Equal})
	Register(Strategy[graphics.Size]{Step: StepSize, Equal: graphics.Size.Equal})
	Register(Strategy[graphics.Rect]{Step: StepRect, Equal: graphics.Rect.Equal})
	Register(Strategy[graphics.Radius]{Step: StepRadius, Equal: graphics.Radius.Equal})
	Register(Strategy[graphics.EdgeInsets]{Step: StepEdgeInsets, Equal: graphics.EdgeInsets.Equal})
	Register(Strategy[graphics.Shadow]{Step: StepShadow, Equal: graphics.Shadow.Equal})
	Register(Strategy[image.Point]{Step: StepPoint, Equal: Exact[image.Point]})
	Register(Strategy[image.Rectangle]{Step: StepRectangle, Equal: Exact[image.Rectangle]})
	Register(Strategy[*image.RGBA]{Step: StepPixels, Equal: PixelsEqual, Clone: ClonePixels})
}

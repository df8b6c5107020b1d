package transition

import (
	"bytes"
	"image"
	"runtime"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// minRowsPerWorker keeps tiny buffers on the calling goroutine.
const minRowsPerWorker = 16

// StepPixels treats every byte of every pixel as an independent lane and
// steps them all. Rows are split across goroutines. A nil current or a
// bounds mismatch snaps to a copy of target.
func StepPixels(current, target *image.RGBA, gradient, linearSpeed float64) (*image.RGBA, bool) {
	if target == nil {
		return nil, current == nil
	}
	if current == nil || current.Rect != target.Rect || gradient >= 1 {
		return ClonePixels(target), true
	}

	r := target.Rect
	next := image.NewRGBA(r)
	rows := r.Dy()
	rowBytes := r.Dx() * 4

	workers := runtime.GOMAXPROCS(0)
	if maxWorkers := rows / minRowsPerWorker; workers > maxWorkers {
		workers = maxWorkers
	}
	if workers < 1 {
		workers = 1
	}

	done := make([]bool, workers)
	stepRows := func(w, from, to int) {
		all := true
		for y := from; y < to; y++ {
			cur := current.Pix[current.PixOffset(r.Min.X, r.Min.Y+y):][:rowBytes]
			tgt := target.Pix[target.PixOffset(r.Min.X, r.Min.Y+y):][:rowBytes]
			out := next.Pix[next.PixOffset(r.Min.X, r.Min.Y+y):][:rowBytes]
			for i := range out {
				v, ok := Integer(cur[i], tgt[i], gradient, linearSpeed)
				out[i] = v
				all = all && ok
			}
		}
		done[w] = all
	}

	if workers == 1 {
		stepRows(0, 0, rows)
		return next, done[0]
	}

	var g errgroup.Group
	g.SetLimit(workers)
	chunk := (rows + workers - 1) / workers
	for w := 0; w < workers; w++ {
		from := w * chunk
		to := min(from+chunk, rows)
		if from >= to {
			done[w] = true
			continue
		}
		g.Go(func() error {
			stepRows(w, from, to)
			return nil
		})
	}
	_ = g.Wait()

	for _, d := range done {
		if !d {
			return next, false
		}
	}
	return next, true
}

// PixelsEqual reports whether two buffers have the same bounds and bytes.
func PixelsEqual(a, b *image.RGBA) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Rect != b.Rect {
		return false
	}
	r := a.Rect
	rowBytes := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		ra := a.Pix[a.PixOffset(r.Min.X, y):][:rowBytes]
		rb := b.Pix[b.PixOffset(r.Min.X, y):][:rowBytes]
		if !bytes.Equal(ra, rb) {
			return false
		}
	}
	return true
}

// ClonePixels returns a copy of src with its own backing array.
func ClonePixels(src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	return RGBAFromImage(src)
}

// RGBAFromImage converts any image into an RGBA buffer with the same bounds.
func RGBAFromImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Copy(dst, b.Min, src, b, draw.Src, nil)
	return dst
}

// RGBAScaled resamples src into a new buffer covering bounds, so a source
// image can be brought to the size of a buffer it will be animated against.
func RGBAScaled(src image.Image, bounds image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(bounds)
	draw.ApproxBiLinear.Scale(dst, bounds, src, src.Bounds(), draw.Src, nil)
	return dst
}

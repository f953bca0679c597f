package converter

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"imageConverter/codec"
)

// SearchConfig bounds the two-phase target-size search.
type SearchConfig struct {
	// MaxQualityIters caps phase 1, MinQuality is its floor.
	MaxQualityIters int
	MinQuality      int

	// MaxScaleIters caps phase 2, MinDimension is the floor on either axis.
	MaxScaleIters int
	MinDimension  int
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxQualityIters: 10,
		MinQuality:      10,
		MaxScaleIters:   20,
		MinDimension:    50,
	}
}

// SizeResult is the outcome of a target-size search. MetBudget makes the
// best-effort contract explicit: when false, Data is the closest the search
// got within its bounds.
type SizeResult struct {
	Data      []byte
	Quality   int
	Width     int
	Height    int
	MetBudget bool

	// Iterations counts search re-encodes, excluding the initial one.
	Iterations int
}

// qualityStep maps overshoot to a quality cut: the further the current size
// is over budget, the harder the drop.
func qualityStep(ratio float64) int {
	switch {
	case ratio > 5:
		return 30
	case ratio > 2:
		return 20
	default:
		return 10
	}
}

// scaleFactor mirrors qualityStep for the downscale phase.
func scaleFactor(ratio float64) float64 {
	switch {
	case ratio > 4:
		return 0.50
	case ratio > 2:
		return 0.70
	default:
		return 0.85
	}
}

// FitTargetSize encodes src once and, when a byte budget is set and missed,
// searches for parameters that fit: first by lowering quality, then by
// scaling dimensions down. Every iteration re-encodes from src so lossy
// generations never compound. Quality and dimensions only ever decrease.
func (c *Converter) FitTargetSize(ctx context.Context, src []byte, opts Options) (*SizeResult, error) {
	data, err := c.Convert(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	res := &SizeResult{
		Data:    data,
		Quality: opts.Quality,
		Width:   opts.Width,
		Height:  opts.Height,
	}

	target := opts.TargetSize
	if target <= 0 || int64(len(data)) <= target {
		res.MetBudget = true
		return res, nil
	}

	// Phase 1: quality descent at fixed dimensions.
	quality := opts.Quality
	for iter := 0; int64(len(data)) > target && quality > c.search.MinQuality && iter < c.search.MaxQualityIters; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ratio := float64(len(data)) / float64(target)
		quality = max(c.search.MinQuality, quality-qualityStep(ratio))

		cur := opts
		cur.Quality = quality
		if data, err = c.Convert(ctx, src, cur); err != nil {
			return nil, err
		}
		res.Iterations++

		c.logger.Debug("quality descent",
			zap.Int("quality", quality),
			zap.Int("size", len(data)),
			zap.Int64("target", target),
		)
	}

	// Phase 2: progressive downscale at the quality phase 1 settled on.
	width, height := opts.Width, opts.Height
	if int64(len(data)) > target {
		if width <= 0 && height <= 0 {
			// The caller gave no dimensions; the natural ones are read once
			// from the normalized source.
			meta, err := c.engine.ReadMetadata(src)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", codec.ErrDecode, err)
			}
			width, height = meta.Width, meta.Height
		}

		for iter := 0; int64(len(data)) > target &&
			(width > c.search.MinDimension || height > c.search.MinDimension) &&
			iter < c.search.MaxScaleIters; iter++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			ratio := float64(len(data)) / float64(target)
			f := scaleFactor(ratio)
			width = int(math.Round(float64(width) * f))
			height = int(math.Round(float64(height) * f))

			cur := opts
			cur.Quality = quality
			cur.Width, cur.Height = width, height
			if data, err = c.Convert(ctx, src, cur); err != nil {
				return nil, err
			}
			res.Iterations++

			c.logger.Debug("progressive downscale",
				zap.Int("width", width),
				zap.Int("height", height),
				zap.Float64("scale", f),
				zap.Int("size", len(data)),
				zap.Int64("target", target),
			)
		}
	}

	res.Data = data
	res.Quality = quality
	res.Width, res.Height = width, height
	res.MetBudget = int64(len(data)) <= target
	return res, nil
}

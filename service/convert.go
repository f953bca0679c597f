package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"imageConverter/archive"
	"imageConverter/codec"
	"imageConverter/converter"
	"imageConverter/dto"
	"imageConverter/pool"
)

// Preview output is a fixed 300x300 fit-inside JPEG at quality 70.
const (
	previewBox     = 300
	previewQuality = 70
)

// ConvertService orchestrates conversions: normalization, the per-file
// pipeline, the target-size search and batch aggregation.
type ConvertService struct {
	conv       *converter.Converter
	normalizer *codec.Normalizer
	logger     *zap.Logger

	// workers bounds concurrent in-flight files within one batch. 1 keeps
	// the sequential baseline.
	workers int
}

func NewConvertService(conv *converter.Converter, normalizer *codec.Normalizer, logger *zap.Logger, workers int) *ConvertService {
	if workers < 1 {
		workers = 1
	}
	return &ConvertService{
		conv:       conv,
		normalizer: normalizer,
		logger:     logger,
		workers:    workers,
	}
}

// ConvertOne converts a single image. Decode and encode failures abort the
// call and surface to the caller.
func (s *ConvertService) ConvertOne(ctx context.Context, src dto.SourceImage, req dto.ConversionRequest) (*dto.ConversionResult, error) {
	res, err := s.convertFile(ctx, src, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Conversion completed",
		zap.String("filename", src.Filename),
		zap.String("format", string(req.Format)),
		zap.Int("output_bytes", len(res.Data)),
		zap.Bool("met_budget", res.MetBudget),
	)

	return res, nil
}

// ConvertBatch converts up to dto.MaxBatchFiles images and archives the
// successful ones. A failing file is logged, recorded in the outcome and
// omitted from the archive; it never aborts the batch. All files failing
// still yields a successful, empty archive.
func (s *ConvertService) ConvertBatch(ctx context.Context, srcs []dto.SourceImage, req dto.ConversionRequest) (*dto.BatchOutcome, error) {
	if len(srcs) == 0 {
		return nil, dto.ErrNoFiles
	}
	if len(srcs) > dto.MaxBatchFiles {
		return nil, fmt.Errorf("%w: got %d, limit %d", dto.ErrTooManyFiles, len(srcs), dto.MaxBatchFiles)
	}

	outcome := &dto.BatchOutcome{Files: make([]dto.FileResult, len(srcs))}
	results := make([]*dto.ConversionResult, len(srcs))
	started := make([]bool, len(srcs))

	p := pool.NewWorkerPool(s.workers)
	for i := range srcs {
		i := i
		src := srcs[i]
		p.Submit(ctx, func(ctx context.Context) {
			started[i] = true
			res, err := s.convertFile(ctx, src, req)
			outcome.Files[i] = dto.FileResult{Filename: src.Filename, Err: err}
			if err != nil {
				s.logger.Warn("Batch file skipped",
					zap.String("filename", src.Filename),
					zap.Error(err),
				)
				return
			}
			results[i] = res
		})
	}
	p.Wait()

	// Tasks cancelled before a worker picked them up never ran; record the
	// cancellation so the outcome stays complete.
	for i := range outcome.Files {
		if !started[i] {
			outcome.Files[i] = dto.FileResult{Filename: srcs[i].Filename, Err: ctx.Err()}
		}
	}

	entries := make([]archive.Entry, 0, len(results))
	seen := make(map[string]int, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		entries = append(entries, archive.Entry{Name: uniqueName(seen, r.Filename), Data: r.Data})
	}

	var buf bytes.Buffer
	if err := archive.WriteZip(&buf, entries); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	outcome.Archive = buf.Bytes()

	s.logger.Info("Batch completed",
		zap.Int("files", len(srcs)),
		zap.Int("succeeded", len(entries)),
		zap.Int("failed", outcome.Failed()),
		zap.Int("archive_bytes", len(outcome.Archive)),
	)

	return outcome, nil
}

// Preview runs the fixed thumbnail pipeline: HEIC-normalize with a JPEG
// intermediate, fit inside 300x300, encode JPEG at quality 70. No size search.
func (s *ConvertService) Preview(ctx context.Context, src dto.SourceImage) ([]byte, error) {
	normalized, err := s.normalizer.NormalizePreview(src.Data, src.MimeType, src.Filename)
	if err != nil {
		return nil, err
	}

	return s.conv.Convert(ctx, normalized, converter.Options{
		Format:    codec.FormatJPEG,
		Quality:   previewQuality,
		Width:     previewBox,
		Height:    previewBox,
		FitInside: true,
	})
}

// convertFile runs the full chain for one file: HEIC normalization, the
// single encode, and the target-size search when a budget is set.
func (s *ConvertService) convertFile(ctx context.Context, src dto.SourceImage, req dto.ConversionRequest) (*dto.ConversionResult, error) {
	normalized, err := s.normalizer.Normalize(src.Data, src.MimeType, src.Filename)
	if err != nil {
		return nil, err
	}

	opts := converter.Options{
		Format:          req.Format,
		Quality:         req.Quality,
		Width:           req.Width,
		Height:          req.Height,
		FitInside:       req.MaintainAspect,
		TargetSize:      req.TargetSize,
		KeepMetadata:    req.KeepMetadata,
		UseTransparency: req.UseTransparency,
		Background:      req.Background,
	}
	if req.KeepMetadata {
		// Extracted from the original bytes, not the normalized ones, so
		// HEIC metadata survives the intermediate.
		opts.EXIF = codec.ExtractEXIF(src.Data, src.MimeType, src.Filename)
	}

	result := &dto.ConversionResult{
		MimeType: req.Format.MIME(),
		Filename: entryName(src.Filename, req.Format),
	}

	if opts.TargetSize > 0 {
		sized, err := s.conv.FitTargetSize(ctx, normalized, opts)
		if err != nil {
			return nil, err
		}
		result.Data = sized.Data
		result.MetBudget = sized.MetBudget
		return result, nil
	}

	data, err := s.conv.Convert(ctx, normalized, opts)
	if err != nil {
		return nil, err
	}
	result.Data = data
	result.MetBudget = true
	return result, nil
}

// entryName derives the output filename: <original stem>_converted.<format>.
func entryName(filename string, format codec.Format) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "image"
	}
	return stem + "_converted." + format.Ext()
}

// uniqueName disambiguates colliding archive entry names.
func uniqueName(seen map[string]int, name string) string {
	seen[name]++
	if seen[name] == 1 {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%d%s", stem, seen[name], ext)
}

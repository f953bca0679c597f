package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"imageConverter/codec"
	"imageConverter/dto"
	"imageConverter/middleware"
	"imageConverter/validation"
)

// ConvertService is the core surface the transport adapts to HTTP.
type ConvertService interface {
	ConvertOne(ctx context.Context, src dto.SourceImage, req dto.ConversionRequest) (*dto.ConversionResult, error)
	ConvertBatch(ctx context.Context, srcs []dto.SourceImage, req dto.ConversionRequest) (*dto.BatchOutcome, error)
	Preview(ctx context.Context, src dto.SourceImage) ([]byte, error)
}

type ConvertHandler struct {
	service   ConvertService
	logger    *zap.Logger
	maxUpload int64
}

func NewConvertHandler(service ConvertService, logger *zap.Logger, maxUpload int64) *ConvertHandler {
	return &ConvertHandler{
		service:   service,
		logger:    logger,
		maxUpload: maxUpload,
	}
}

// Convert handles POST /api/convert. One file in the "image" field (or a
// single "images" entry) returns the converted bytes directly; multiple
// "images" entries return a ZIP archive.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.handleError(w, "Failed to parse form", err, traceID, http.StatusBadRequest)
		return
	}

	srcs, err := h.collectFiles(r)
	if err != nil {
		h.handleError(w, "Invalid upload", err, traceID, http.StatusBadRequest)
		return
	}
	if len(srcs) == 0 {
		h.handleError(w, "No image file uploaded", dto.ErrNoFiles, traceID, http.StatusBadRequest)
		return
	}

	req := dto.ParseConversionRequest(url.Values(r.MultipartForm.Value))

	if len(srcs) == 1 {
		res, err := h.service.ConvertOne(r.Context(), srcs[0], req)
		if err != nil {
			h.convertError(w, err, traceID)
			return
		}

		w.Header().Set("Content-Type", res.MimeType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "converted."+req.Format.Ext()))
		w.Header().Set("X-Budget-Met", strconv.FormatBool(res.MetBudget))
		w.Write(res.Data)
		return
	}

	outcome, err := h.service.ConvertBatch(r.Context(), srcs, req)
	if err != nil {
		h.convertError(w, err, traceID)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="converted_images.zip"`)
	w.Write(outcome.Archive)
}

// Preview handles POST /api/preview: a fixed JPEG thumbnail of the uploaded
// image.
func (h *ConvertHandler) Preview(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.handleError(w, "Failed to parse form", err, traceID, http.StatusBadRequest)
		return
	}

	srcs, err := h.collectFiles(r)
	if err != nil {
		h.handleError(w, "Invalid upload", err, traceID, http.StatusBadRequest)
		return
	}
	if len(srcs) == 0 {
		h.handleError(w, "No image file uploaded", dto.ErrNoFiles, traceID, http.StatusBadRequest)
		return
	}

	data, err := h.service.Preview(r.Context(), srcs[0])
	if err != nil {
		h.convertError(w, err, traceID)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(data)
}

// Health handles GET /health.
func (h *ConvertHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// collectFiles reads uploads from the "images" field, falling back to the
// single "image" field.
func (h *ConvertHandler) collectFiles(r *http.Request) ([]dto.SourceImage, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["image"]
	}

	srcs := make([]dto.SourceImage, 0, len(headers))
	for _, header := range headers {
		if err := validation.CheckFileSize(header.Size, h.maxUpload); err != nil {
			return nil, err
		}

		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = validation.DetectMIME(data)
		}

		srcs = append(srcs, dto.SourceImage{
			Data:     data,
			MimeType: mimeType,
			Filename: header.Filename,
		})
	}
	return srcs, nil
}

// convertError maps core errors onto HTTP statuses: structural request
// problems are 400, codec rejections 422, everything else 500.
func (h *ConvertHandler) convertError(w http.ResponseWriter, err error, traceID string) {
	switch {
	case errors.Is(err, dto.ErrNoFiles), errors.Is(err, dto.ErrTooManyFiles):
		h.handleError(w, err.Error(), err, traceID, http.StatusBadRequest)
	case errors.Is(err, codec.ErrDecode):
		h.handleError(w, "Failed to decode image", err, traceID, http.StatusUnprocessableEntity)
	case errors.Is(err, codec.ErrEncode):
		h.handleError(w, "Failed to encode image", err, traceID, http.StatusUnprocessableEntity)
	default:
		h.handleError(w, "Image conversion failed", err, traceID, http.StatusInternalServerError)
	}
}

func (h *ConvertHandler) handleError(w http.ResponseWriter, message string, err error, traceID string, status int) {
	h.logger.Error(message,
		zap.String("trace_id", traceID),
		zap.Error(err),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		TraceID: traceID,
	})
}

package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixlane/marketplace-api/internal/mapper"
	"github.com/fixlane/marketplace-api/internal/service"
)

// FileHandler serves attachment upload and download endpoints
type FileHandler struct {
	fileService *service.FileService
	maxUploadMB int64
	logger      *zap.Logger
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(fileService *service.FileService, maxUploadMB int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxUploadMB: maxUploadMB,
		logger:      logger,
	}
}

// Upload godoc
// @Summary Upload an attachment
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.StoredFileDTO "Stored file metadata"
// @Security BearerAuth
// @Router /files [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	stored, err := h.fileService.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		h.logger.Error("failed to upload file", zap.Error(err))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, mapper.ToStoredFileDTO(stored))
}

// Download godoc
// @Summary Download an attachment
// @Tags Files
// @Produce application/octet-stream
// @Param id path string true "File ID"
// @Success 200
// @Failure 404 {object} domain.APIError "File not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id} [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	file, reader, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("file download interrupted", zap.Error(err), zap.String("file_id", id.String()))
	}
}

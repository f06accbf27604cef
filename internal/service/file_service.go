package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/auth"
	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
	"github.com/fixlane/marketplace-api/internal/storage"
)

// maxUploadSize caps attachment uploads at 25 MiB
const maxUploadSize = 25 << 20

// FileService stores job attachments via the configured storage backend
// and tracks their metadata.
type FileService struct {
	fileRepo *repository.FileRepository
	storage  storage.Storage
	logger   *zap.Logger
}

// NewFileService creates a new FileService
func NewFileService(fileRepo *repository.FileRepository, store storage.Storage, logger *zap.Logger) *FileService {
	return &FileService{fileRepo: fileRepo, storage: store, logger: logger}
}

// Upload stores an attachment and records its metadata
func (s *FileService) Upload(ctx context.Context, filename, contentType string, size int64, data io.Reader) (*domain.StoredFile, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}
	if size > maxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds the %d byte limit", ErrInvalidInput, maxUploadSize)
	}

	storagePath, written, err := s.storage.Upload(ctx, filename, contentType, io.LimitReader(data, maxUploadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	file := &domain.StoredFile{
		FileName:    filename,
		ContentType: contentType,
		Size:        written,
		StoragePath: storagePath,
	}
	if user.UserID != uuid.Nil {
		uploaderID := user.UserID
		file.UploadedBy = &uploaderID
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Best effort cleanup of the orphaned blob
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up stored file after metadata error",
				zap.String("storage_path", storagePath),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to record file: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("file_id", file.ID.String()),
		zap.String("file_name", filename),
		zap.Int64("size", written),
	)
	return file, nil
}

// Download returns an attachment's metadata and a reader over its bytes.
// The caller owns the reader and must close it.
func (s *FileService) Download(ctx context.Context, fileID uuid.UUID) (*domain.StoredFile, io.ReadCloser, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to load file: %w", err)
	}

	reader, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, reader, nil
}

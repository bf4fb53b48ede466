package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/sirupsen/logrus"

	"github.com/pathwai/pathwai-backend/internal/logger"
	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
	"github.com/pathwai/pathwai-backend/internal/repository"
	"github.com/pathwai/pathwai-backend/internal/storage"
)

// Разрешённые типы изображений (по магическим байтам, не по имени файла).
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// sniffSize - сколько байт читается для определения типа.
const sniffSize = 512

type MediaStore interface {
	Create(ctx context.Context, media *models.MediaFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error)
	Delete(ctx context.Context, mediaID, userID uuid.UUID) error
}

type AvatarStore interface {
	UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) error
}

type FileStore interface {
	Save(ctx context.Context, userID uuid.UUID, ext string, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, relativePath string) error
	URL(relativePath string) string
}

// UploadResult - ответ на загрузку: url используется как identity.avatarUrl.
type UploadResult struct {
	URL   string            `json:"url"`
	Media *models.MediaFile `json:"media"`
}

// MediaService сохраняет изображения пользователей.
type MediaService struct {
	media MediaStore
	users AvatarStore
	files FileStore
}

func NewMediaService(media MediaStore, users AvatarStore, files FileStore) *MediaService {
	return &MediaService{media: media, users: users, files: files}
}

// SniffImage определяет тип изображения по первым байтам файла.
func SniffImage(head []byte) (mime, ext string, err error) {
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "", "", apperror.New(apperror.ErrCodeValidation, "Unable to detect file type, only images are allowed")
	}
	if !allowedImageTypes[kind.MIME.Value] {
		return "", "", apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("Unsupported file type %s", kind.MIME.Value))
	}
	return kind.MIME.Value, kind.Extension, nil
}

// UploadImage проверяет и сохраняет изображение пользователя.
func (s *MediaService) UploadImage(ctx context.Context, userID uuid.UUID, r io.Reader) (*UploadResult, error) {
	head := make([]byte, sniffSize)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperror.Wrap(err, apperror.ErrCodeBadRequest, "Failed to read file")
	}
	if n == 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "File is empty")
	}
	head = head[:n]

	mime, ext, err := SniffImage(head)
	if err != nil {
		return nil, err
	}

	rel, size, err := s.files.Save(ctx, userID, ext, io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, apperror.New(apperror.ErrCodeValidation, "File is too large")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to store file")
	}

	media := &models.MediaFile{UserID: userID, FilePath: rel, FileType: mime, FileSize: size}
	if err := s.media.Create(ctx, media); err != nil {
		_ = s.files.Delete(ctx, rel)
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to save media")
	}

	return &UploadResult{URL: s.files.URL(rel), Media: media}, nil
}

// UploadAvatar сохраняет изображение и делает его аватаром пользователя.
func (s *MediaService) UploadAvatar(ctx context.Context, userID uuid.UUID, r io.Reader) (*UploadResult, error) {
	res, err := s.UploadImage(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateAvatar(ctx, userID, res.URL); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to update avatar")
	}

	logger.WithFields(logrus.Fields{"user_id": userID, "media_id": res.Media.ID}).Info("avatar updated")
	return res, nil
}

// Delete удаляет файл владельца.
func (s *MediaService) Delete(ctx context.Context, userID, mediaID uuid.UUID) error {
	media, err := s.media.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, repository.ErrMediaNotFound) {
			return apperror.New(apperror.ErrCodeNotFound, "Media not found")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch media")
	}
	if media.UserID != userID {
		return apperror.New(apperror.ErrCodeForbidden, "You can delete only your own files")
	}

	if err := s.media.Delete(ctx, mediaID, userID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to delete media")
	}
	if err := s.files.Delete(ctx, media.FilePath); err != nil {
		logger.WithComponent("media").WithError(err).WithField("media_id", mediaID).Warn("file left on disk")
	}
	return nil
}

package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"proconnect_backend/internal/imageprocessor"
	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/internal/storage"
	"proconnect_backend/pkg/apperrors"
)

// UploadLimits - ограничения загрузки изображений галереи
type UploadLimits struct {
	MaxSize      int64
	AllowedTypes []string
}

// ContentService - публичный контент: видео, лидеры, галерея
type ContentService interface {
	// Videos
	ListVideos(db *gorm.DB, publishedOnly bool) ([]models.Video, error)
	CreateVideo(ctx context.Context, db *gorm.DB, req *dto.VideoRequest) (*models.Video, error)
	UpdateVideo(ctx context.Context, db *gorm.DB, id string, req *dto.VideoRequest) (*models.Video, error)
	DeleteVideo(ctx context.Context, db *gorm.DB, id string) error

	// Leaders
	ListLeaders(db *gorm.DB, publishedOnly bool) ([]models.Leader, error)
	CreateLeader(ctx context.Context, db *gorm.DB, req *dto.LeaderRequest) (*models.Leader, error)
	UpdateLeader(ctx context.Context, db *gorm.DB, id string, req *dto.LeaderRequest) (*models.Leader, error)
	DeleteLeader(ctx context.Context, db *gorm.DB, id string) error

	// Gallery
	ListGallery(db *gorm.DB, publishedOnly bool) ([]models.GalleryImage, error)
	UploadGalleryImage(ctx context.Context, db *gorm.DB, req *dto.GalleryUploadRequest) (*models.GalleryImage, error)
	UpdateGalleryImage(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateGalleryImageRequest) (*models.GalleryImage, error)
	DeleteGalleryImage(ctx context.Context, db *gorm.DB, id string) error
}

type ContentServiceImpl struct {
	contentRepo repositories.ContentRepository
	storage     storage.Storage
	processor   *imageprocessor.Processor
	limits      UploadLimits
}

func NewContentService(
	contentRepo repositories.ContentRepository,
	store storage.Storage,
	processor *imageprocessor.Processor,
	limits UploadLimits,
) ContentService {
	return &ContentServiceImpl{
		contentRepo: contentRepo,
		storage:     store,
		processor:   processor,
		limits:      limits,
	}
}

// =======================
// Videos
// =======================

func (s *ContentServiceImpl) ListVideos(db *gorm.DB, publishedOnly bool) ([]models.Video, error) {
	videos, err := s.contentRepo.ListVideos(db, publishedOnly)
	if err != nil {
		return nil, handleContentError(err)
	}
	return videos, nil
}

func (s *ContentServiceImpl) CreateVideo(ctx context.Context, db *gorm.DB, req *dto.VideoRequest) (*models.Video, error) {
	video := &models.Video{}
	applyVideo(video, req)
	if err := s.contentRepo.CreateVideo(db, video); err != nil {
		return nil, handleContentError(err)
	}
	logger.CtxInfo(ctx, "Video created", "video_id", video.ID)
	return video, nil
}

func (s *ContentServiceImpl) UpdateVideo(ctx context.Context, db *gorm.DB, id string, req *dto.VideoRequest) (*models.Video, error) {
	video, err := s.contentRepo.FindVideoByID(db, id)
	if err != nil {
		return nil, handleContentError(err)
	}
	applyVideo(video, req)
	if err := s.contentRepo.UpdateVideo(db, video); err != nil {
		return nil, handleContentError(err)
	}
	logger.CtxInfo(ctx, "Video updated", "video_id", id)
	return video, nil
}

func (s *ContentServiceImpl) DeleteVideo(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.contentRepo.DeleteVideo(db, id); err != nil {
		return handleContentError(err)
	}
	logger.CtxInfo(ctx, "Video deleted", "video_id", id)
	return nil
}

func applyVideo(video *models.Video, req *dto.VideoRequest) {
	video.Title = req.Title
	video.Description = req.Description
	video.URL = req.URL
	video.ThumbnailURL = req.ThumbnailURL
	video.Published = req.Published
	video.SortOrder = req.SortOrder
}

// =======================
// Leaders
// =======================

func (s *ContentServiceImpl) ListLeaders(db *gorm.DB, publishedOnly bool) ([]models.Leader, error) {
	leaders, err := s.contentRepo.ListLeaders(db, publishedOnly)
	if err != nil {
		return nil, handleContentError(err)
	}
	return leaders, nil
}

func (s *ContentServiceImpl) CreateLeader(ctx context.Context, db *gorm.DB, req *dto.LeaderRequest) (*models.Leader, error) {
	leader := &models.Leader{}
	applyLeader(leader, req)
	if err := s.contentRepo.CreateLeader(db, leader); err != nil {
		return nil, handleContentError(err)
	}
	logger.CtxInfo(ctx, "Leader created", "leader_id", leader.ID)
	return leader, nil
}

func (s *ContentServiceImpl) UpdateLeader(ctx context.Context, db *gorm.DB, id string, req *dto.LeaderRequest) (*models.Leader, error) {
	leader, err := s.contentRepo.FindLeaderByID(db, id)
	if err != nil {
		return nil, handleContentError(err)
	}
	applyLeader(leader, req)
	if err := s.contentRepo.UpdateLeader(db, leader); err != nil {
		return nil, handleContentError(err)
	}
	logger.CtxInfo(ctx, "Leader updated", "leader_id", id)
	return leader, nil
}

func (s *ContentServiceImpl) DeleteLeader(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.contentRepo.DeleteLeader(db, id); err != nil {
		return handleContentError(err)
	}
	logger.CtxInfo(ctx, "Leader deleted", "leader_id", id)
	return nil
}

func applyLeader(leader *models.Leader, req *dto.LeaderRequest) {
	leader.Name = req.Name
	leader.Title = req.Title
	leader.Bio = req.Bio
	leader.PhotoURL = req.PhotoURL
	leader.LinkedinURL = req.LinkedinURL
	leader.Published = req.Published
	leader.SortOrder = req.SortOrder
}

// =======================
// Gallery
// =======================

func (s *ContentServiceImpl) ListGallery(db *gorm.DB, publishedOnly bool) ([]models.GalleryImage, error) {
	images, err := s.contentRepo.ListGalleryImages(db, publishedOnly)
	if err != nil {
		return nil, handleContentError(err)
	}
	return images, nil
}

// UploadGalleryImage сохраняет оригинал и JPEG миниатюру. При ошибке БД файлы удаляются.
func (s *ContentServiceImpl) UploadGalleryImage(ctx context.Context, db *gorm.DB, req *dto.GalleryUploadRequest) (*models.GalleryImage, error) {
	if req.File == nil {
		return nil, apperrors.NewBadRequestError("File is required")
	}
	if s.limits.MaxSize > 0 && req.File.Size > s.limits.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	file, err := req.File.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open upload: %w", err))
	}
	defer file.Close()

	data, err := readLimited(file, s.limits.MaxSize)
	if err != nil {
		return nil, err
	}

	mime := mimetype.Detect(data)
	if !s.isAllowedType(mime) {
		logger.CtxWarn(ctx, "Rejected gallery upload", "mime_type", mime.String(), "filename", req.File.Filename)
		return nil, apperrors.ErrInvalidFileType
	}

	id := uuid.NewString()
	key := "gallery/" + id + mime.Extension()
	if err := s.storage.Save(ctx, key, bytes.NewReader(data), int64(len(data)), mime.String()); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to store image: %w", err))
	}
	imageURL, err := s.storage.GetURL(ctx, key)
	if err != nil {
		s.removeObjects(ctx, key)
		return nil, apperrors.InternalError(err)
	}

	image := &models.GalleryImage{
		Title:      req.Title,
		Caption:    req.Caption,
		StorageKey: key,
		ImageURL:   imageURL,
		MimeType:   mime.String(),
		Size:       int64(len(data)),
		Published:  req.Published,
		SortOrder:  req.SortOrder,
	}
	image.ID = id
	s.attachThumbnail(ctx, image, data)

	if err := s.contentRepo.CreateGalleryImage(db, image); err != nil {
		s.removeObjects(ctx, image.StorageKey, image.ThumbKey)
		return nil, handleContentError(err)
	}

	logger.CtxInfo(ctx, "Gallery image uploaded", "image_id", image.ID, "size", image.Size, "mime_type", image.MimeType)
	return image, nil
}

// attachThumbnail - без миниатюры изображение все равно сохраняется
func (s *ContentServiceImpl) attachThumbnail(ctx context.Context, image *models.GalleryImage, data []byte) {
	if s.processor == nil {
		return
	}
	thumb, err := s.processor.Thumbnail(data)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to build thumbnail", err, "image_id", image.ID)
		return
	}
	key := "gallery/thumbs/" + image.ID + ".jpg"
	if err := s.storage.Save(ctx, key, bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg"); err != nil {
		logger.CtxWithError(ctx, "Failed to store thumbnail", err, "image_id", image.ID)
		return
	}
	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		s.removeObjects(ctx, key)
		return
	}
	image.ThumbKey = key
	image.ThumbnailURL = url
}

func (s *ContentServiceImpl) UpdateGalleryImage(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateGalleryImageRequest) (*models.GalleryImage, error) {
	image, err := s.contentRepo.FindGalleryImageByID(db, id)
	if err != nil {
		return nil, handleContentError(err)
	}
	if req.Title != nil {
		image.Title = *req.Title
	}
	if req.Caption != nil {
		image.Caption = *req.Caption
	}
	if req.Published != nil {
		image.Published = *req.Published
	}
	if req.SortOrder != nil {
		image.SortOrder = *req.SortOrder
	}
	if err := s.contentRepo.UpdateGalleryImage(db, image); err != nil {
		return nil, handleContentError(err)
	}
	return image, nil
}

func (s *ContentServiceImpl) DeleteGalleryImage(ctx context.Context, db *gorm.DB, id string) error {
	image, err := s.contentRepo.FindGalleryImageByID(db, id)
	if err != nil {
		return handleContentError(err)
	}
	if err := s.contentRepo.DeleteGalleryImage(db, id); err != nil {
		return handleContentError(err)
	}
	s.removeObjects(ctx, image.StorageKey, image.ThumbKey)
	logger.CtxInfo(ctx, "Gallery image deleted", "image_id", id)
	return nil
}

func (s *ContentServiceImpl) removeObjects(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWithError(ctx, "Failed to delete stored object", err, "key", key)
		}
	}
}

func (s *ContentServiceImpl) isAllowedType(mime *mimetype.MIME) bool {
	if len(s.limits.AllowedTypes) == 0 {
		return true
	}
	for _, allowed := range s.limits.AllowedTypes {
		if mime.Is(allowed) {
			return true
		}
	}
	return false
}

// readLimited читает не больше max байт, иначе ErrFileTooLarge
func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if int64(len(data)) > max {
		return nil, apperrors.ErrFileTooLarge
	}
	return data, nil
}

func handleContentError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrVideoNotFound) ||
		errors.Is(err, repositories.ErrLeaderNotFound) ||
		errors.Is(err, repositories.ErrGalleryImageNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}

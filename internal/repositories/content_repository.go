package repositories

import (
	"errors"

	"proconnect_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrVideoNotFound        = errors.New("video not found")
	ErrLeaderNotFound       = errors.New("leader not found")
	ErrGalleryImageNotFound = errors.New("gallery image not found")
)

// ContentRepository - видео, руководители и галерея для публичных страниц
type ContentRepository interface {
	// Videos
	CreateVideo(db *gorm.DB, video *models.Video) error
	FindVideoByID(db *gorm.DB, id string) (*models.Video, error)
	UpdateVideo(db *gorm.DB, video *models.Video) error
	DeleteVideo(db *gorm.DB, id string) error
	ListVideos(db *gorm.DB, publishedOnly bool) ([]models.Video, error)

	// Leaders
	CreateLeader(db *gorm.DB, leader *models.Leader) error
	FindLeaderByID(db *gorm.DB, id string) (*models.Leader, error)
	UpdateLeader(db *gorm.DB, leader *models.Leader) error
	DeleteLeader(db *gorm.DB, id string) error
	ListLeaders(db *gorm.DB, publishedOnly bool) ([]models.Leader, error)

	// Gallery
	CreateGalleryImage(db *gorm.DB, image *models.GalleryImage) error
	FindGalleryImageByID(db *gorm.DB, id string) (*models.GalleryImage, error)
	UpdateGalleryImage(db *gorm.DB, image *models.GalleryImage) error
	DeleteGalleryImage(db *gorm.DB, id string) error
	ListGalleryImages(db *gorm.DB, publishedOnly bool) ([]models.GalleryImage, error)
}

type ContentRepositoryImpl struct{}

func NewContentRepository() ContentRepository {
	return &ContentRepositoryImpl{}
}

// --- Videos ---

func (r *ContentRepositoryImpl) CreateVideo(db *gorm.DB, video *models.Video) error {
	return db.Create(video).Error
}

func (r *ContentRepositoryImpl) FindVideoByID(db *gorm.DB, id string) (*models.Video, error) {
	var video models.Video
	if err := findByID(db, &video, id, ErrVideoNotFound); err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *ContentRepositoryImpl) UpdateVideo(db *gorm.DB, video *models.Video) error {
	return saveExisting(db, video, video.ID, ErrVideoNotFound)
}

func (r *ContentRepositoryImpl) DeleteVideo(db *gorm.DB, id string) error {
	return deleteByID(db, &models.Video{}, id, ErrVideoNotFound)
}

func (r *ContentRepositoryImpl) ListVideos(db *gorm.DB, publishedOnly bool) ([]models.Video, error) {
	var videos []models.Video
	err := orderedContent(db, publishedOnly).Find(&videos).Error
	return videos, err
}

// --- Leaders ---

func (r *ContentRepositoryImpl) CreateLeader(db *gorm.DB, leader *models.Leader) error {
	return db.Create(leader).Error
}

func (r *ContentRepositoryImpl) FindLeaderByID(db *gorm.DB, id string) (*models.Leader, error) {
	var leader models.Leader
	if err := findByID(db, &leader, id, ErrLeaderNotFound); err != nil {
		return nil, err
	}
	return &leader, nil
}

func (r *ContentRepositoryImpl) UpdateLeader(db *gorm.DB, leader *models.Leader) error {
	return saveExisting(db, leader, leader.ID, ErrLeaderNotFound)
}

func (r *ContentRepositoryImpl) DeleteLeader(db *gorm.DB, id string) error {
	return deleteByID(db, &models.Leader{}, id, ErrLeaderNotFound)
}

func (r *ContentRepositoryImpl) ListLeaders(db *gorm.DB, publishedOnly bool) ([]models.Leader, error) {
	var leaders []models.Leader
	err := orderedContent(db, publishedOnly).Find(&leaders).Error
	return leaders, err
}

// --- Gallery ---

func (r *ContentRepositoryImpl) CreateGalleryImage(db *gorm.DB, image *models.GalleryImage) error {
	return db.Create(image).Error
}

func (r *ContentRepositoryImpl) FindGalleryImageByID(db *gorm.DB, id string) (*models.GalleryImage, error) {
	var image models.GalleryImage
	if err := findByID(db, &image, id, ErrGalleryImageNotFound); err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *ContentRepositoryImpl) UpdateGalleryImage(db *gorm.DB, image *models.GalleryImage) error {
	return saveExisting(db, image, image.ID, ErrGalleryImageNotFound)
}

func (r *ContentRepositoryImpl) DeleteGalleryImage(db *gorm.DB, id string) error {
	return deleteByID(db, &models.GalleryImage{}, id, ErrGalleryImageNotFound)
}

func (r *ContentRepositoryImpl) ListGalleryImages(db *gorm.DB, publishedOnly bool) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	err := orderedContent(db, publishedOnly).Find(&images).Error
	return images, err
}

// --- helpers ---

func orderedContent(db *gorm.DB, publishedOnly bool) *gorm.DB {
	query := db
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	return query.Order("sort_order ASC").Order("created_at DESC")
}

func findByID(db *gorm.DB, dest interface{}, id string, notFound error) error {
	if err := db.First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return err
	}
	return nil
}

// saveExisting - полное обновление записи, которая уже должна существовать
func saveExisting(db *gorm.DB, model interface{}, id string, notFound error) error {
	result := db.Model(model).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func deleteByID(db *gorm.DB, model interface{}, id string, notFound error) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

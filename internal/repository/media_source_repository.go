package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newslens/internal/entity"
)

// MediaSourceRepository defines the interface for media source metadata.
type MediaSourceRepository interface {
	GetAll(ctx context.Context) ([]entity.MediaSource, error)
	GetBySource(ctx context.Context, source string) (*entity.MediaSource, error)
	Upsert(ctx context.Context, ms *entity.MediaSource) error
}

type mediaSourceRepository struct {
	db *gorm.DB
}

// NewMediaSourceRepository creates a new instance of MediaSourceRepository.
func NewMediaSourceRepository(db *gorm.DB) MediaSourceRepository {
	return &mediaSourceRepository{db: db}
}

func (r *mediaSourceRepository) GetAll(ctx context.Context) ([]entity.MediaSource, error) {
	var sources []entity.MediaSource
	err := r.db.WithContext(ctx).Order("source asc").Find(&sources).Error
	return sources, err
}

// GetBySource returns nil without error when the source is not registered.
func (r *mediaSourceRepository) GetBySource(ctx context.Context, source string) (*entity.MediaSource, error) {
	var ms entity.MediaSource
	err := r.db.WithContext(ctx).Where("source = ?", source).First(&ms).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ms, nil
}

func (r *mediaSourceRepository) Upsert(ctx context.Context, ms *entity.MediaSource) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source"}},
			UpdateAll: true,
		}).
		Create(ms).Error
}

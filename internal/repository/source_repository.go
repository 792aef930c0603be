package repository

import (
	"context"

	"gorm.io/gorm"

	"newslens/internal/entity"
)

// SourceRepository defines the interface for source data access.
type SourceRepository interface {
	FirstOrCreate(ctx context.Context, name string) (*entity.Source, error)
	GetAll(ctx context.Context) ([]entity.Source, error)
}

type sourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository creates a new instance of SourceRepository.
func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) FirstOrCreate(ctx context.Context, name string) (*entity.Source, error) {
	var source entity.Source
	err := r.db.WithContext(ctx).
		Where(entity.Source{Name: name}).
		FirstOrCreate(&source).Error
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *sourceRepository) GetAll(ctx context.Context) ([]entity.Source, error) {
	var sources []entity.Source
	err := r.db.WithContext(ctx).Order("name asc").Find(&sources).Error
	return sources, err
}

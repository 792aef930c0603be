package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newslens/internal/dto"
	"newslens/internal/entity"
)

// AnalysisRepository defines the interface for analysis data access.
type AnalysisRepository interface {
	CreateIgnoreConflict(ctx context.Context, analysis *entity.Analysis) (bool, error)
	ExistsForDay(ctx context.Context, sourceID uint, day string) (bool, error)
	Search(ctx context.Context, filter dto.AnalysisFilter) ([]entity.Analysis, error)
}

type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a new instance of AnalysisRepository.
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

// CreateIgnoreConflict inserts the analysis unless one already exists for the
// same source and day. Returns whether a row was actually written.
func (r *analysisRepository) CreateIgnoreConflict(ctx context.Context, analysis *entity.Analysis) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_id"}, {Name: "analysis_date"}},
			DoNothing: true,
		}).
		Create(analysis)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *analysisRepository) ExistsForDay(ctx context.Context, sourceID uint, day string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Analysis{}).
		Where("source_id = ? AND analysis_date = ?", sourceID, day).
		Count(&count).Error
	return count > 0, err
}

func (r *analysisRepository) Search(ctx context.Context, filter dto.AnalysisFilter) ([]entity.Analysis, error) {
	query := r.db.WithContext(ctx).Model(&entity.Analysis{})

	if filter.Source != "" {
		query = query.Joins("JOIN sources ON sources.source_id = analyses.source_id").
			Where("sources.name = ?", filter.Source)
	}
	if filter.Date != "" {
		query = query.Where("analyses.analysis_date = ?", filter.Date)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var analyses []entity.Analysis
	err := query.Order("analyses.analysis_date desc").Limit(limit).Find(&analyses).Error
	return analyses, err
}

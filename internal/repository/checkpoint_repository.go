package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newslens/internal/entity"
)

// Checkpoint names recorded by the scheduler.
const (
	CheckpointLastAnalysisDate = "last_analysis_date"
	CheckpointLastCollectionAt = "last_collection_at"
)

// CheckpointRepository persists scheduler progress markers.
type CheckpointRepository interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
}

type checkpointRepository struct {
	db *gorm.DB
}

// NewCheckpointRepository creates a new instance of CheckpointRepository.
func NewCheckpointRepository(db *gorm.DB) CheckpointRepository {
	return &checkpointRepository{db: db}
}

// Get returns the checkpoint value, or empty string when never recorded.
func (r *checkpointRepository) Get(ctx context.Context, name string) (string, error) {
	var cp entity.SchedulerCheckpoint
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&cp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return cp.Value, nil
}

func (r *checkpointRepository) Set(ctx context.Context, name, value string) error {
	cp := entity.SchedulerCheckpoint{
		Name:      name,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&cp).Error
}

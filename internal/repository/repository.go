package repository

import (
	"context"

	"newslens/internal/dto"
)

// AIRepository defines the interface for the external analysis service.
type AIRepository interface {
	AnalyzeBatch(ctx context.Context, source, analysisDate string, articles []string) (*dto.BatchAnalysisResult, error)
}

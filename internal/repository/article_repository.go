package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newslens/internal/dto"
	"newslens/internal/entity"
)

// ArticleRepository defines the interface for article data access.
type ArticleRepository interface {
	CreateIgnoreConflict(ctx context.Context, article *entity.Article) (bool, error)
	FindBySourceAndDay(ctx context.Context, sourceID uint, day string) ([]entity.Article, error)
	SourceIDsWithArticlesOn(ctx context.Context, day string) ([]uint, error)
	Search(ctx context.Context, filter dto.ArticleFilter) ([]entity.Article, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new instance of ArticleRepository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// CreateIgnoreConflict inserts the article unless its key already exists.
// Returns whether a row was actually written.
func (r *articleRepository) CreateIgnoreConflict(ctx context.Context, article *entity.Article) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(article)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *articleRepository) FindBySourceAndDay(ctx context.Context, sourceID uint, day string) ([]entity.Article, error) {
	var articles []entity.Article
	err := r.db.WithContext(ctx).
		Where("source_id = ?", sourceID).
		Where("publication_date LIKE ?", day+"%").
		Order("publication_date asc").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) SourceIDsWithArticlesOn(ctx context.Context, day string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&entity.Article{}).
		Where("publication_date LIKE ?", day+"%").
		Distinct().
		Pluck("source_id", &ids).Error
	return ids, err
}

func (r *articleRepository) Search(ctx context.Context, filter dto.ArticleFilter) ([]entity.Article, error) {
	query := r.db.WithContext(ctx).Model(&entity.Article{})

	if filter.Source != "" {
		query = query.Joins("JOIN sources ON sources.source_id = articles.source_id").
			Where("sources.name = ?", filter.Source)
	}
	if filter.Date != "" {
		query = query.Where("articles.publication_date LIKE ?", filter.Date+"%")
	}
	if filter.Keyword != "" {
		query = query.Where("articles.clean_content LIKE ?", "%"+filter.Keyword+"%")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var articles []entity.Article
	err := query.Order("articles.publication_date desc").Limit(limit).Find(&articles).Error
	return articles, err
}

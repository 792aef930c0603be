package analyzer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"newslens/internal/config"
	"newslens/internal/dto"
	"newslens/internal/entity"
	"newslens/internal/newsutil"
	"newslens/internal/repository"
	"newslens/pkg/logger"
)

type fakeAIRepo struct {
	calls   int
	failAll bool
	result  dto.BatchAnalysisResult
}

func (f *fakeAIRepo) AnalyzeBatch(ctx context.Context, source, analysisDate string, articles []string) (*dto.BatchAnalysisResult, error) {
	f.calls++
	if f.failAll {
		return nil, assert.AnError
	}
	r := f.result
	r.NumbersOfArticles = len(articles)
	return &r, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Source{}, &entity.Article{}, &entity.Analysis{}))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, ai repository.AIRepository) *Service {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := config.AnalyzerConfig{
		TargetDay:           "current_day",
		TokenBudget:         60000,
		CharsPerToken:       4,
		MaxArticlesPerBatch: 60,
	}
	svc := NewService(cfg,
		repository.NewSourceRepository(db),
		repository.NewArticleRepository(db),
		repository.NewAnalysisRepository(db),
		ai, log)
	svc.sleep = func(ctx context.Context, d time.Duration) {}
	return svc
}

func seedArticles(t *testing.T, db *gorm.DB, sourceName, day string, n int) entity.Source {
	t.Helper()
	source := entity.Source{Name: sourceName}
	require.NoError(t, db.Create(&source).Error)
	for i := 0; i < n; i++ {
		title := sourceName + " headline " + string(rune('a'+i))
		require.NoError(t, db.Create(&entity.Article{
			ID:              newsutil.ArticleID(title, "desc"),
			SourceID:        source.ID,
			RawTitle:        title,
			CleanContent:    title + ". desc",
			PublicationDate: day + " 0" + string(rune('1'+i)) + ":00:00",
		}).Error)
	}
	return source
}

func TestAnalyze_EndToEnd(t *testing.T) {
	db := newTestDB(t)
	ai := &fakeAIRepo{result: dto.BatchAnalysisResult{
		SentimentPositivePercentage: 40,
		SentimentNegativePercentage: 35,
		SentimentNeutralPercentage:  25,
		BiasPoliticalScore:          -1,
		Themes: []dto.NarrativeTheme{{Theme: "economy", Coverage: 80, Examples: "x"}},
	}}
	svc := newTestService(t, db, ai)

	source := seedArticles(t, db, "bbc", "2026-08-30", 3)
	target := time.Date(2026, 8, 30, 23, 31, 0, 0, time.UTC)

	require.NoError(t, svc.Analyze(context.Background(), target))

	var rows []entity.Analysis
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, source.ID, rows[0].SourceID)
	assert.Equal(t, "2026-08-30", rows[0].AnalysisDate)
	assert.Equal(t, 3, rows[0].NumbersOfArticles)
	assert.Equal(t, "economy", rows[0].MainNarrativeTheme1)
	assert.Equal(t, 1, ai.calls)
}

func TestAnalyze_RerunIsNoOp(t *testing.T) {
	db := newTestDB(t)
	ai := &fakeAIRepo{}
	svc := newTestService(t, db, ai)

	seedArticles(t, db, "bbc", "2026-08-30", 2)
	target := time.Date(2026, 8, 30, 23, 31, 0, 0, time.UTC)

	require.NoError(t, svc.Analyze(context.Background(), target))
	require.NoError(t, svc.Analyze(context.Background(), target))

	var count int64
	require.NoError(t, db.Model(&entity.Analysis{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 1, ai.calls)
}

func TestAnalyze_AllBatchesFailWritesNoRow(t *testing.T) {
	db := newTestDB(t)
	ai := &fakeAIRepo{failAll: true}
	svc := newTestService(t, db, ai)

	seedArticles(t, db, "bbc", "2026-08-30", 2)
	target := time.Date(2026, 8, 30, 23, 31, 0, 0, time.UTC)

	require.NoError(t, svc.Analyze(context.Background(), target))

	var count int64
	require.NoError(t, db.Model(&entity.Analysis{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, 3, ai.calls)
}

func TestAnalyze_OnlySourcesWithArticlesOnDay(t *testing.T) {
	db := newTestDB(t)
	ai := &fakeAIRepo{}
	svc := newTestService(t, db, ai)

	busy := seedArticles(t, db, "busy", "2026-08-30", 2)
	seedArticles(t, db, "other_day", "2026-08-29", 2)
	target := time.Date(2026, 8, 30, 23, 31, 0, 0, time.UTC)

	require.NoError(t, svc.Analyze(context.Background(), target))

	var rows []entity.Analysis
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, busy.ID, rows[0].SourceID)
	assert.Equal(t, 1, ai.calls)
}

func TestAnalyze_SkipsSourcesWithoutArticles(t *testing.T) {
	db := newTestDB(t)
	ai := &fakeAIRepo{}
	svc := newTestService(t, db, ai)

	require.NoError(t, db.Create(&entity.Source{Name: "quiet"}).Error)
	target := time.Date(2026, 8, 30, 23, 31, 0, 0, time.UTC)

	require.NoError(t, svc.Analyze(context.Background(), target))
	assert.Zero(t, ai.calls)
}

func TestTargetDate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeAIRepo{})
	now := time.Date(2026, 8, 30, 23, 31, 0, 0, time.UTC)

	assert.Equal(t, "2026-08-30", svc.TargetDate(now).Format("2006-01-02"))

	svc.cfg.TargetDay = "previous_day"
	assert.Equal(t, "2026-08-29", svc.TargetDate(now).Format("2006-01-02"))
}

func TestPartition(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeAIRepo{})
	svc.cfg.TokenBudget = 4
	svc.cfg.CharsPerToken = 2
	svc.cfg.MaxArticlesPerBatch = 60

	batches := svc.partition([]string{"aaaa", "bbbb", "cc", "dd"})
	require.Len(t, batches, 2)
	assert.Equal(t, []string{"aaaa", "bbbb"}, batches[0])
	assert.Equal(t, []string{"cc", "dd"}, batches[1])
}

func TestPartition_RespectsArticleCap(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeAIRepo{})
	svc.cfg.TokenBudget = 1000
	svc.cfg.CharsPerToken = 4
	svc.cfg.MaxArticlesPerBatch = 2

	batches := svc.partition([]string{"a", "b", "c", "d", "e"})
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[2], 1)
}

func TestPartition_OversizedArticleStillBatched(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeAIRepo{})
	svc.cfg.TokenBudget = 1
	svc.cfg.CharsPerToken = 1

	batches := svc.partition([]string{strings.Repeat("x", 100)})
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 1)
}

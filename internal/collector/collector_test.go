package collector

import (
	"context"
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
	"newslens/internal/feeds"
	"newslens/internal/repository"
	"newslens/pkg/logger"
)

type fakeParser struct {
	entries []dto.RawEntry
	err     error
	calls   int
}

func (f *fakeParser) FetchFeed(ctx context.Context, url string) ([]dto.RawEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Source{},
		&entity.Article{},
		&entity.Analysis{},
		&entity.MediaSource{},
		&entity.SchedulerCheckpoint{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, parser feeds.Parser, fixedNow time.Time) *Service {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	registry := feeds.NewRegistry()
	registry.Register("rss", parser)

	cfg := config.CollectorConfig{
		Lookback: 20 * time.Hour,
		Sources: []config.Source{
			{
				Name:    "bbc",
				Parser:  "rss",
				Enabled: true,
				RetryPolicy: config.RetryPolicy{
					MaxAttempts: 2,
					MinDelay:    time.Millisecond,
					MaxDelay:    2 * time.Millisecond,
				},
				Feeds: []config.Feed{{Name: "world", URL: "http://example.com/rss", Priority: 1}},
			},
		},
	}

	svc := NewService(cfg, registry,
		repository.NewSourceRepository(db),
		repository.NewArticleRepository(db),
		repository.NewMediaSourceRepository(db),
		log)
	svc.now = func() time.Time { return fixedNow }
	svc.sleep = func(ctx context.Context, d time.Duration) {}

	require.NoError(t, db.Create(&entity.MediaSource{Source: "bbc", Name: "BBC News"}).Error)
	return svc
}

func TestCollect_DoubleCollectIsIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	parser := &fakeParser{entries: []dto.RawEntry{
		{
			Title:       "Election results are in",
			Description: "The count finished overnight.",
			Link:        "http://example.com/a",
			Published:   now.Add(-2 * time.Hour).Format(time.RFC1123Z),
			Categories:  []string{"politics"},
		},
	}}

	db := newTestDB(t)
	svc := newTestService(t, db, parser, now)

	saved, err := svc.Collect(context.Background(), 20*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, saved["bbc"])

	saved, err = svc.Collect(context.Background(), 20*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, saved["bbc"])

	var count int64
	require.NoError(t, db.Model(&entity.Article{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCollect_DropsUnparseableDates(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	parser := &fakeParser{entries: []dto.RawEntry{
		{Title: "Good", Description: "d", Link: "http://example.com/a", Published: now.Add(-time.Hour).Format(time.RFC1123Z)},
		{Title: "Bad date", Description: "d", Link: "http://example.com/b", Published: "sometime yesterday"},
	}}

	db := newTestDB(t)
	svc := newTestService(t, db, parser, now)

	saved, err := svc.Collect(context.Background(), 20*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, saved["bbc"])
}

func TestCollect_EnforcesLookbackWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	parser := &fakeParser{entries: []dto.RawEntry{
		{Title: "Fresh", Description: "d", Link: "http://example.com/a", Published: now.Add(-time.Hour).Format(time.RFC1123Z)},
		{Title: "Stale", Description: "d", Link: "http://example.com/b", Published: now.Add(-30 * time.Hour).Format(time.RFC1123Z)},
		{Title: "Future", Description: "d", Link: "http://example.com/c", Published: now.Add(2 * time.Hour).Format(time.RFC1123Z)},
	}}

	db := newTestDB(t)
	svc := newTestService(t, db, parser, now)

	saved, err := svc.Collect(context.Background(), 20*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, saved["bbc"])
}

func TestCollect_SkipsUnregisteredMediaSource(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	parser := &fakeParser{entries: []dto.RawEntry{
		{Title: "A", Description: "d", Link: "http://example.com/a", Published: now.Format(time.RFC1123Z)},
	}}

	db := newTestDB(t)
	svc := newTestService(t, db, parser, now)
	require.NoError(t, db.Delete(&entity.MediaSource{Source: "bbc"}).Error)

	saved, err := svc.Collect(context.Background(), 20*time.Hour)
	require.NoError(t, err)
	assert.NotContains(t, saved, "bbc")
	assert.Zero(t, parser.calls)
}

func TestCollect_RetriesExhaustedFeedDoesNotAbort(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	parser := &fakeParser{err: assert.AnError}

	db := newTestDB(t)
	svc := newTestService(t, db, parser, now)

	saved, err := svc.Collect(context.Background(), 20*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, saved["bbc"])
	assert.Equal(t, 2, parser.calls)
}

func TestSeedMediaSources_EnablesFreshDatabase(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	parser := &fakeParser{entries: []dto.RawEntry{
		{Title: "A", Description: "d", Link: "http://example.com/a", Published: now.Add(-time.Hour).Format(time.RFC1123Z)},
	}}

	db := newTestDB(t)
	svc := newTestService(t, db, parser, now)
	require.NoError(t, db.Delete(&entity.MediaSource{Source: "bbc"}).Error)

	saved, err := svc.Collect(context.Background(), 20*time.Hour)
	require.NoError(t, err)
	assert.NotContains(t, saved, "bbc")

	seeded, err := svc.SeedMediaSources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, seeded)

	saved, err = svc.Collect(context.Background(), 20*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, saved["bbc"])
}

func TestSeedMediaSources_KeepsExistingRows(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeParser{}, time.Now())

	seeded, err := svc.SeedMediaSources(context.Background())
	require.NoError(t, err)
	assert.Zero(t, seeded)

	var ms entity.MediaSource
	require.NoError(t, db.Where("source = ?", "bbc").First(&ms).Error)
	assert.Equal(t, "BBC News", ms.Name)
}

func TestValidateSources_UnknownParser(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeParser{}, time.Now())
	svc.cfg.Sources[0].Parser = "missing"

	err := svc.ValidateSources()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bbc")
}

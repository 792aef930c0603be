package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"newslens/internal/config"
	"newslens/internal/dto"
	"newslens/internal/entity"
	"newslens/internal/feeds"
	"newslens/internal/newsutil"
	"newslens/internal/repository"
	"newslens/pkg/logger"
	"newslens/pkg/utils"
)

// Service collects articles from configured feeds into storage.
type Service struct {
	cfg        config.CollectorConfig
	registry   *feeds.Registry
	sourceRepo repository.SourceRepository
	artRepo    repository.ArticleRepository
	mediaRepo  repository.MediaSourceRepository
	log        *logger.Logger

	mediaCache *cache.Cache

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// NewService creates a new collector service.
func NewService(
	cfg config.CollectorConfig,
	registry *feeds.Registry,
	sourceRepo repository.SourceRepository,
	artRepo repository.ArticleRepository,
	mediaRepo repository.MediaSourceRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		cfg:        cfg,
		registry:   registry,
		sourceRepo: sourceRepo,
		artRepo:    artRepo,
		mediaRepo:  mediaRepo,
		log:        log,
		mediaCache: cache.New(5*time.Minute, 10*time.Minute),
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// ValidateSources verifies every enabled source references a registered
// parser, so misconfiguration fails at startup instead of mid-run.
func (s *Service) ValidateSources() error {
	for _, src := range s.cfg.Sources {
		if !src.Enabled {
			continue
		}
		if _, err := s.registry.Get(src.Parser); err != nil {
			return fmt.Errorf("source %s: %w", src.Name, err)
		}
	}
	return nil
}

// SeedMediaSources registers every configured source in media_sources so a
// fresh database passes the collection gate. Existing rows keep their rating
// data; only the registration is upserted.
func (s *Service) SeedMediaSources(ctx context.Context) (int, error) {
	seeded := 0
	for _, src := range s.cfg.Sources {
		existing, err := s.mediaRepo.GetBySource(ctx, src.Name)
		if err != nil {
			return seeded, fmt.Errorf("failed to check media source %s: %w", src.Name, err)
		}
		if existing != nil {
			continue
		}
		ms := &entity.MediaSource{
			Source:      src.Name,
			Name:        src.Name,
			LastUpdated: s.now().UTC(),
		}
		if err := s.mediaRepo.Upsert(ctx, ms); err != nil {
			return seeded, fmt.Errorf("failed to seed media source %s: %w", src.Name, err)
		}
		s.mediaCache.Delete(src.Name)
		seeded++
	}
	if seeded > 0 {
		s.log.Info("Seeded media sources", logger.IntField("seeded", seeded))
	}
	return seeded, nil
}

// Collect fetches all enabled sources and stores normalized articles
// published within [now-lookback, now]. Returns saved counts per source.
// Individual feed failures are logged and never abort sibling feeds.
func (s *Service) Collect(ctx context.Context, lookback time.Duration) (map[string]int, error) {
	now := s.now().UTC()
	cutoff := now.Add(-lookback)
	saved := make(map[string]int, len(s.cfg.Sources))

	for _, src := range s.cfg.Sources {
		if !utils.ShouldContinue(ctx, s.log) {
			return saved, ctx.Err()
		}
		if !src.Enabled {
			continue
		}

		ok, err := s.verifyMediaSource(ctx, src.Name)
		if err != nil {
			s.log.Error("Media source lookup failed", logger.StringField("source", src.Name), logger.ErrorField(err))
			continue
		}
		if !ok {
			s.log.Warn("Skipping source not registered in media_sources", logger.StringField("source", src.Name))
			continue
		}

		count, err := s.collectSource(ctx, src, cutoff, now)
		if err != nil {
			s.log.Error("Failed to collect source", logger.StringField("source", src.Name), logger.ErrorField(err))
			continue
		}
		saved[src.Name] = count
	}

	return saved, nil
}

func (s *Service) collectSource(ctx context.Context, src config.Source, cutoff, now time.Time) (int, error) {
	parser, err := s.registry.Get(src.Parser)
	if err != nil {
		return 0, err
	}

	source, err := s.sourceRepo.FirstOrCreate(ctx, src.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve source row: %w", err)
	}

	feedList := make([]config.Feed, len(src.Feeds))
	copy(feedList, src.Feeds)
	sort.SliceStable(feedList, func(i, j int) bool {
		return feedList[i].Priority < feedList[j].Priority
	})

	seen := make(map[string]struct{})
	total := 0

	for _, feed := range feedList {
		if !utils.ShouldContinue(ctx, s.log) {
			return total, ctx.Err()
		}

		entries, err := s.fetchWithRetry(ctx, parser, feed.URL, src.RetryPolicy)
		if err != nil {
			s.log.Error("Feed fetch exhausted retries",
				logger.StringField("source", src.Name),
				logger.StringField("feed", feed.Name),
				logger.ErrorField(err))
			continue
		}

		kept, skipped := 0, 0
		for _, entry := range entries {
			article, ok := s.buildArticle(src.Name, feed.Name, source.ID, entry, cutoff, now)
			if !ok {
				skipped++
				continue
			}
			if _, dup := seen[entry.Title+entry.Description]; dup {
				skipped++
				continue
			}
			seen[entry.Title+entry.Description] = struct{}{}

			inserted, err := s.artRepo.CreateIgnoreConflict(ctx, article)
			if err != nil {
				s.log.Error("Failed to save article",
					logger.StringField("source", src.Name),
					logger.StringField("link", entry.Link),
					logger.ErrorField(err))
				continue
			}
			if inserted {
				kept++
			} else {
				skipped++
			}
		}

		total += kept
		s.log.Info("Feed collected",
			logger.StringField("source", src.Name),
			logger.StringField("feed", feed.Name),
			logger.IntField("fetched", len(entries)),
			logger.IntField("kept", kept),
			logger.IntField("skipped", skipped))
	}

	return total, nil
}

// buildArticle normalizes one raw entry. Entries missing required fields,
// with unparseable dates, or outside the lookback window are rejected.
func (s *Service) buildArticle(sourceName, feedName string, sourceID uint, entry dto.RawEntry, cutoff, now time.Time) (*entity.Article, bool) {
	title := utils.CleanToValidUTF8(entry.Title)
	if title == "" || entry.Link == "" {
		return nil, false
	}
	description := utils.CleanToValidUTF8(entry.Description)

	pubDate, err := newsutil.UnifyDate(entry.Published)
	if err != nil {
		if errors.Is(err, newsutil.ErrDateParse) {
			s.log.Warn("Dropping article with unparseable date",
				logger.StringField("source", sourceName),
				logger.StringField("published", entry.Published),
				logger.StringField("link", entry.Link))
		}
		return nil, false
	}
	pubTime, err := newsutil.ParseUnified(pubDate)
	if err != nil {
		return nil, false
	}
	if pubTime.Before(cutoff) || pubTime.After(now) {
		return nil, false
	}

	categories := entry.Categories
	if len(categories) == 0 {
		categories = []string{feedName}
	}

	cleanContent, stats := newsutil.CleanArticle(title, description)
	if stats.HTMLTags > 0 || stats.HTMLEntities > 0 {
		s.log.Debug("Normalized article markup",
			logger.StringField("source", sourceName),
			logger.IntField("tags", stats.HTMLTags),
			logger.IntField("entities", stats.HTMLEntities))
	}

	return &entity.Article{
		ID:              newsutil.ArticleID(title, description),
		SourceID:        sourceID,
		RawTitle:        title,
		RawDescription:  description,
		CleanContent:    cleanContent,
		Categories:      strings.Join(categories, ","),
		Link:            entry.Link,
		PublicationDate: pubDate,
		CreatedAt:       now,
	}, true
}

// fetchWithRetry retries a feed fetch with a doubling delay clamped to the
// source retry policy.
func (s *Service) fetchWithRetry(ctx context.Context, parser feeds.Parser, url string, policy config.RetryPolicy) ([]dto.RawEntry, error) {
	var lastErr error
	delay := policy.MinDelay

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		entries, err := parser.FetchFeed(ctx, url)
		if err == nil {
			return entries, nil
		}
		lastErr = err

		if attempt < policy.MaxAttempts {
			s.log.Warn("Feed fetch failed, retrying",
				logger.StringField("url", url),
				logger.IntField("attempt", attempt),
				logger.Field("delay", delay),
				logger.ErrorField(err))
			s.sleep(ctx, delay)
			delay *= 2
			if delay > policy.MaxDelay {
				delay = policy.MaxDelay
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("all %d attempts failed: %w", policy.MaxAttempts, lastErr)
}

// verifyMediaSource checks registration in media_sources, cached for five
// minutes so a collection pass hits the table once per source.
func (s *Service) verifyMediaSource(ctx context.Context, name string) (bool, error) {
	if cached, found := s.mediaCache.Get(name); found {
		return cached.(bool), nil
	}
	ms, err := s.mediaRepo.GetBySource(ctx, name)
	if err != nil {
		return false, err
	}
	registered := ms != nil
	s.mediaCache.Set(name, registered, cache.DefaultExpiration)
	return registered, nil
}

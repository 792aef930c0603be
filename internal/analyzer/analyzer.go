package analyzer

import (
	"context"
	"fmt"
	"time"

	"newslens/internal/config"
	"newslens/internal/dto"
	"newslens/internal/entity"
	"newslens/internal/newsutil"
	"newslens/internal/repository"
	"newslens/pkg/logger"
	"newslens/pkg/utils"
)

const analysisRetryAttempts = 3

// Service produces one daily analysis row per source from stored articles.
type Service struct {
	cfg          config.AnalyzerConfig
	sourceRepo   repository.SourceRepository
	artRepo      repository.ArticleRepository
	analysisRepo repository.AnalysisRepository
	aiRepo       repository.AIRepository
	log          *logger.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// NewService creates a new analyzer service.
func NewService(
	cfg config.AnalyzerConfig,
	sourceRepo repository.SourceRepository,
	artRepo repository.ArticleRepository,
	analysisRepo repository.AnalysisRepository,
	aiRepo repository.AIRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		cfg:          cfg,
		sourceRepo:   sourceRepo,
		artRepo:      artRepo,
		analysisRepo: analysisRepo,
		aiRepo:       aiRepo,
		log:          log,
		now:          time.Now,
		sleep: func(ctx context.Context, d time.Duration) {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		},
	}
}

// TargetDate resolves which UTC day to analyze according to the configured
// target-day strategy.
func (s *Service) TargetDate(now time.Time) time.Time {
	now = now.UTC()
	if s.cfg.TargetDay == "previous_day" {
		return now.AddDate(0, 0, -1)
	}
	return now
}

// Analyze produces an analysis row for every source that published articles
// on targetDate. Sources already analyzed for the day are skipped; sources
// whose batches all fail get no row and do not abort siblings.
func (s *Service) Analyze(ctx context.Context, targetDate time.Time) error {
	day := targetDate.UTC().Format("2006-01-02")

	withArticles, err := s.artRepo.SourceIDsWithArticlesOn(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to list sources with articles: %w", err)
	}
	if len(withArticles) == 0 {
		s.log.Info("No articles published on target day, nothing to analyze",
			logger.StringField("day", day))
		return nil
	}
	eligible := make(map[uint]struct{}, len(withArticles))
	for _, id := range withArticles {
		eligible[id] = struct{}{}
	}

	sources, err := s.sourceRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	for _, source := range sources {
		if !utils.ShouldContinue(ctx, s.log) {
			return ctx.Err()
		}
		if _, ok := eligible[source.ID]; !ok {
			continue
		}
		if err := s.analyzeSource(ctx, source, day); err != nil {
			s.log.Error("Failed to analyze source",
				logger.StringField("source", source.Name),
				logger.StringField("day", day),
				logger.ErrorField(err))
		}
	}
	return nil
}

func (s *Service) analyzeSource(ctx context.Context, source entity.Source, day string) error {
	exists, err := s.analysisRepo.ExistsForDay(ctx, source.ID, day)
	if err != nil {
		return fmt.Errorf("failed to check existing analysis: %w", err)
	}
	if exists {
		s.log.Info("Analysis already exists, skipping",
			logger.StringField("source", source.Name),
			logger.StringField("day", day))
		return nil
	}

	articles, err := s.artRepo.FindBySourceAndDay(ctx, source.ID, day)
	if err != nil {
		return fmt.Errorf("failed to load articles: %w", err)
	}
	if len(articles) == 0 {
		return nil
	}

	contents := make([]string, len(articles))
	for i, a := range articles {
		contents[i] = a.CleanContent
	}
	batches := s.partition(contents)

	s.log.Info("Analyzing source",
		logger.StringField("source", source.Name),
		logger.StringField("day", day),
		logger.IntField("articles", len(articles)),
		logger.IntField("batches", len(batches)))

	var outcomes []batchOutcome
	for i, batch := range batches {
		result, err := s.analyzeBatchWithRetry(ctx, source.Name, day, batch)
		if err != nil {
			s.log.Error("Batch analysis failed, skipping batch",
				logger.StringField("source", source.Name),
				logger.IntField("batch", i+1),
				logger.ErrorField(err))
			continue
		}
		outcomes = append(outcomes, batchOutcome{articles: len(batch), result: result})
	}

	if len(outcomes) == 0 {
		s.log.Error("All analysis batches failed, no row written",
			logger.StringField("source", source.Name),
			logger.StringField("day", day))
		return nil
	}

	merged := mergeBatchResults(outcomes)
	row := buildAnalysisRow(source, day, merged, s.now().UTC())

	inserted, err := s.analysisRepo.CreateIgnoreConflict(ctx, row)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	if !inserted {
		s.log.Info("Analysis row already present, insert ignored",
			logger.StringField("source", source.Name),
			logger.StringField("day", day))
		return nil
	}

	s.log.Info("Analysis saved",
		logger.StringField("source", source.Name),
		logger.StringField("day", day),
		logger.IntField("articles", merged.NumbersOfArticles))
	return nil
}

// partition splits article contents into batches under the token budget,
// approximated by characters. A batch is never empty even if a single
// article exceeds the budget, and never exceeds the article cap.
func (s *Service) partition(contents []string) [][]string {
	budgetChars := s.cfg.TokenBudget * s.cfg.CharsPerToken
	maxArticles := s.cfg.MaxArticlesPerBatch

	var batches [][]string
	var current []string
	currentChars := 0

	for _, c := range contents {
		if len(current) > 0 && (currentChars+len(c) > budgetChars || len(current) >= maxArticles) {
			batches = append(batches, current)
			current = nil
			currentChars = 0
		}
		current = append(current, c)
		currentChars += len(c)
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

func (s *Service) analyzeBatchWithRetry(ctx context.Context, source, day string, batch []string) (result *dto.BatchAnalysisResult, err error) {
	delay := 2 * time.Second
	for attempt := 1; attempt <= analysisRetryAttempts; attempt++ {
		result, err = s.aiRepo.AnalyzeBatch(ctx, source, day, batch)
		if err == nil {
			return result, nil
		}
		if attempt < analysisRetryAttempts {
			s.log.Warn("Batch analysis attempt failed, retrying",
				logger.StringField("source", source),
				logger.IntField("attempt", attempt),
				logger.ErrorField(err))
			s.sleep(ctx, delay)
			delay *= 2
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, err
}

func buildAnalysisRow(source entity.Source, day string, merged *dto.BatchAnalysisResult, now time.Time) *entity.Analysis {
	row := &entity.Analysis{
		ID:                newsutil.AnalysisID(source.Name, now),
		SourceID:          source.ID,
		AnalysisDate:      day,
		NumbersOfArticles: merged.NumbersOfArticles,

		NarrativeConfidence: merged.NarrativeConfidence,

		SentimentPositivePercentage: merged.SentimentPositivePercentage,
		SentimentNegativePercentage: merged.SentimentNegativePercentage,
		SentimentNeutralPercentage:  merged.SentimentNeutralPercentage,
		SentimentConfidence:         merged.SentimentConfidence,

		BiasPoliticalScore:     merged.BiasPoliticalScore,
		BiasPoliticalLeaning:   merged.BiasPoliticalLeaning,
		BiasSupportingEvidence: merged.BiasSupportingEvidence,
		BiasConfidence:         merged.BiasConfidence,

		ValuesConfidence: merged.ValuesConfidence,
		CreatedAt:        now,
	}

	themes := merged.Themes
	if len(themes) > 0 {
		row.MainNarrativeTheme1, row.ThemeMainCoverage1, row.ThemeExamples1 = themes[0].Theme, themes[0].Coverage, themes[0].Examples
	}
	if len(themes) > 1 {
		row.MainNarrativeTheme2, row.ThemeMainCoverage2, row.ThemeExamples2 = themes[1].Theme, themes[1].Coverage, themes[1].Examples
	}
	if len(themes) > 2 {
		row.MainNarrativeTheme3, row.ThemeMainCoverage3, row.ThemeExamples3 = themes[2].Theme, themes[2].Coverage, themes[2].Examples
	}
	if len(themes) > 3 {
		row.MainNarrativeTheme4, row.ThemeMainCoverage4, row.ThemeExamples4 = themes[3].Theme, themes[3].Coverage, themes[3].Examples
	}
	if len(themes) > 4 {
		row.MainNarrativeTheme5, row.ThemeMainCoverage5, row.ThemeExamples5 = themes[4].Theme, themes[4].Coverage, themes[4].Examples
	}

	values := merged.Values
	if len(values) > 0 {
		row.ValuesPromoted1, row.ValuesExamples1 = values[0].Value, values[0].Examples
	}
	if len(values) > 1 {
		row.ValuesPromoted2, row.ValuesExamples2 = values[1].Value, values[1].Examples
	}
	if len(values) > 2 {
		row.ValuesPromoted3, row.ValuesExamples3 = values[2].Value, values[2].Examples
	}

	return row
}

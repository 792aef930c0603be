package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"newslens/internal/config"
	"newslens/internal/dto"
	"newslens/pkg/logger"
	"newslens/pkg/ratelimit"
)

type deepSeekAIRepository struct {
	cfg          config.DeepSeekConfig
	client       *http.Client
	reqLimiter   *rate.Limiter
	tokenLimiter *ratelimit.TokenLimiter
	charsPerTok  int
	log          *logger.Logger
}

// NewDeepSeekAIRepository creates an AIRepository backed by the DeepSeek
// chat completions API.
func NewDeepSeekAIRepository(cfg config.DeepSeekConfig, charsPerToken int, log *logger.Logger) AIRepository {
	rpm := cfg.MaxRequestPerMinute
	if rpm <= 0 {
		rpm = 10
	}
	tpm := cfg.MaxTokenPerMinute
	if tpm <= 0 {
		tpm = 60000
	}
	if charsPerToken <= 0 {
		charsPerToken = 4
	}
	return &deepSeekAIRepository{
		cfg:          cfg,
		client:       &http.Client{Timeout: 90 * time.Second},
		reqLimiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		tokenLimiter: ratelimit.NewTokenLimiter(tpm),
		charsPerTok:  charsPerToken,
		log:          log,
	}
}

func (r *deepSeekAIRepository) AnalyzeBatch(ctx context.Context, source, analysisDate string, articles []string) (*dto.BatchAnalysisResult, error) {
	prompt := BuildDailyReportPrompt(source, analysisDate, articles)

	if err := r.reqLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("request limiter wait: %w", err)
	}
	estimatedTokens := len(prompt) / r.charsPerTok
	if err := r.tokenLimiter.Wait(ctx, estimatedTokens); err != nil {
		return nil, fmt.Errorf("token limiter wait: %w", err)
	}

	reqBody := dto.DeepSeekAPIRequest{
		Model: r.cfg.Model,
		Messages: []dto.ChatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := r.cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)

	r.log.Debug("Sending analysis batch to DeepSeek",
		logger.StringField("source", source),
		logger.IntField("articles", len(articles)),
		logger.IntField("estimated_tokens", estimatedTokens))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp dto.DeepSeekAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("analysis response has no choices")
	}

	result, err := ParseReport(apiResp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse analysis report: %w", err)
	}
	result.NumbersOfArticles = len(articles)
	return result, nil
}

package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"newslens/internal/config"
	"newslens/internal/dto"
	"newslens/pkg/logger"
	"newslens/pkg/ratelimit"
)

type geminiAIRepository struct {
	cfg          config.GeminiConfig
	client       *http.Client
	genaiClient  *genai.Client
	reqLimiter   *rate.Limiter
	tokenLimiter *ratelimit.TokenLimiter
	charsPerTok  int
	log          *logger.Logger
}

// NewGeminiAIRepository creates an AIRepository backed by the Gemini
// generateContent API. The genai client is used for token counting so the
// per-minute token limiter works on real counts instead of estimates.
func NewGeminiAIRepository(ctx context.Context, cfg config.GeminiConfig, charsPerToken int, log *logger.Logger) (AIRepository, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

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
	return &geminiAIRepository{
		cfg:          cfg,
		client:       &http.Client{Timeout: 90 * time.Second},
		genaiClient:  genaiClient,
		reqLimiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		tokenLimiter: ratelimit.NewTokenLimiter(tpm),
		charsPerTok:  charsPerToken,
		log:          log,
	}, nil
}

func (r *geminiAIRepository) AnalyzeBatch(ctx context.Context, source, analysisDate string, articles []string) (*dto.BatchAnalysisResult, error) {
	prompt := BuildDailyReportPrompt(source, analysisDate, articles)

	tokens := r.countTokens(ctx, prompt)
	if err := r.reqLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("request limiter wait: %w", err)
	}
	if err := r.tokenLimiter.Wait(ctx, tokens); err != nil {
		return nil, fmt.Errorf("token limiter wait: %w", err)
	}

	reqBody := dto.GeminiAPIRequest{
		Contents: []dto.GeminiContent{
			{Parts: []dto.GeminiContentPart{{Text: prompt}}, Role: "user"},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.BaseURL, r.cfg.Model, r.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	r.log.Debug("Sending analysis batch to Gemini",
		logger.StringField("source", source),
		logger.IntField("articles", len(articles)),
		logger.IntField("tokens", tokens))

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

	var apiResp dto.GeminiAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("analysis response has no candidates")
	}

	text := stripCodeFences(apiResp.Candidates[0].Content.Parts[0].Text)
	result, err := ParseReport(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse analysis report: %w", err)
	}
	result.NumbersOfArticles = len(articles)
	return result, nil
}

// countTokens asks the model for an exact count and falls back to a character
// estimate when the call fails.
func (r *geminiAIRepository) countTokens(ctx context.Context, prompt string) int {
	resp, err := r.genaiClient.Models.CountTokens(ctx, r.cfg.Model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, nil)
	if err != nil {
		r.log.Warn("Token count failed, falling back to estimate", logger.ErrorField(err))
		return len(prompt) / r.charsPerTok
	}
	return int(resp.TotalTokens)
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"newslens/internal/dto"
)

func TestMergeBatchResults_WeightedSentiment(t *testing.T) {
	outcomes := []batchOutcome{
		{articles: 5, result: &dto.BatchAnalysisResult{SentimentPositivePercentage: 60}},
		{articles: 3, result: &dto.BatchAnalysisResult{SentimentPositivePercentage: 40}},
		{articles: 2, result: &dto.BatchAnalysisResult{SentimentPositivePercentage: 20}},
	}

	merged := mergeBatchResults(outcomes)
	assert.Equal(t, 10, merged.NumbersOfArticles)
	assert.InDelta(t, 46.0, merged.SentimentPositivePercentage, 0.001)
}

func TestMergeBatchResults_SingleBatchPassthrough(t *testing.T) {
	outcomes := []batchOutcome{
		{articles: 7, result: &dto.BatchAnalysisResult{
			SentimentPositivePercentage: 33,
			BiasPoliticalScore:          -2,
			NarrativeConfidence:         0.9,
		}},
	}

	merged := mergeBatchResults(outcomes)
	assert.Equal(t, 7, merged.NumbersOfArticles)
	assert.Equal(t, 33.0, merged.SentimentPositivePercentage)
	assert.Equal(t, -2.0, merged.BiasPoliticalScore)
}

func TestMergeBatchResults_ThemesTopFiveByWeightedCoverage(t *testing.T) {
	outcomes := []batchOutcome{
		{articles: 5, result: &dto.BatchAnalysisResult{Themes: []dto.NarrativeTheme{
			{Theme: "economy", Coverage: 50, Examples: "a"},
			{Theme: "politics", Coverage: 30},
			{Theme: "sports", Coverage: 10},
			{Theme: "weather", Coverage: 5},
		}}},
		{articles: 5, result: &dto.BatchAnalysisResult{Themes: []dto.NarrativeTheme{
			{Theme: "economy", Coverage: 40, Examples: "b"},
			{Theme: "culture", Coverage: 30},
			{Theme: "science", Coverage: 20},
		}}},
	}

	merged := mergeBatchResults(outcomes)
	assert.Len(t, merged.Themes, 5)
	assert.Equal(t, "economy", merged.Themes[0].Theme)
	assert.InDelta(t, 45.0, merged.Themes[0].Coverage, 0.001)
	assert.Equal(t, "a", merged.Themes[0].Examples)
}

func TestMergeBatchResults_ConfidenceIsMinimum(t *testing.T) {
	outcomes := []batchOutcome{
		{articles: 1, result: &dto.BatchAnalysisResult{NarrativeConfidence: 0.9, SentimentConfidence: 0.4}},
		{articles: 1, result: &dto.BatchAnalysisResult{NarrativeConfidence: 0.6, SentimentConfidence: 0.8}},
	}

	merged := mergeBatchResults(outcomes)
	assert.Equal(t, 0.6, merged.NarrativeConfidence)
	assert.Equal(t, 0.4, merged.SentimentConfidence)
}

func TestMergeBatchResults_ValuesFirstThreeDistinct(t *testing.T) {
	outcomes := []batchOutcome{
		{articles: 1, result: &dto.BatchAnalysisResult{Values: []dto.PromotedValue{
			{Value: "Accountability"}, {Value: "Transparency"},
		}}},
		{articles: 1, result: &dto.BatchAnalysisResult{Values: []dto.PromotedValue{
			{Value: "Accountability"}, {Value: "Security"}, {Value: "Freedom"},
		}}},
	}

	merged := mergeBatchResults(outcomes)
	assert.Len(t, merged.Values, 3)
	assert.Equal(t, "Accountability", merged.Values[0].Value)
	assert.Equal(t, "Transparency", merged.Values[1].Value)
	assert.Equal(t, "Security", merged.Values[2].Value)
}

package analyzer

import (
	"sort"

	"newslens/internal/dto"
)

// batchOutcome pairs one successful batch result with its article count so
// merging can weight by batch size.
type batchOutcome struct {
	articles int
	result   *dto.BatchAnalysisResult
}

// mergeBatchResults folds per-batch results into one daily result.
// Percentages and scores are weighted by article count, themes are merged by
// weighted coverage keeping the top five, values keep the first three
// distinct entries, and confidences take the minimum across batches.
func mergeBatchResults(outcomes []batchOutcome) *dto.BatchAnalysisResult {
	if len(outcomes) == 1 {
		only := *outcomes[0].result
		only.NumbersOfArticles = outcomes[0].articles
		return &only
	}

	total := 0
	for _, o := range outcomes {
		total += o.articles
	}

	merged := &dto.BatchAnalysisResult{
		NumbersOfArticles:   total,
		NarrativeConfidence: 1,
		SentimentConfidence: 1,
		BiasConfidence:      1,
		ValuesConfidence:    1,
	}

	themeCoverage := make(map[string]float64)
	themeExamples := make(map[string]string)
	seenValues := make(map[string]struct{})

	for _, o := range outcomes {
		w := float64(o.articles) / float64(total)
		r := o.result

		merged.SentimentPositivePercentage += r.SentimentPositivePercentage * w
		merged.SentimentNegativePercentage += r.SentimentNegativePercentage * w
		merged.SentimentNeutralPercentage += r.SentimentNeutralPercentage * w
		merged.BiasPoliticalScore += r.BiasPoliticalScore * w

		if merged.BiasPoliticalLeaning == "" {
			merged.BiasPoliticalLeaning = r.BiasPoliticalLeaning
		}
		if merged.BiasSupportingEvidence == "" {
			merged.BiasSupportingEvidence = r.BiasSupportingEvidence
		}

		merged.NarrativeConfidence = minF(merged.NarrativeConfidence, r.NarrativeConfidence)
		merged.SentimentConfidence = minF(merged.SentimentConfidence, r.SentimentConfidence)
		merged.BiasConfidence = minF(merged.BiasConfidence, r.BiasConfidence)
		merged.ValuesConfidence = minF(merged.ValuesConfidence, r.ValuesConfidence)

		for _, theme := range r.Themes {
			themeCoverage[theme.Theme] += theme.Coverage * w
			if _, ok := themeExamples[theme.Theme]; !ok {
				themeExamples[theme.Theme] = theme.Examples
			}
		}

		for _, v := range r.Values {
			if _, ok := seenValues[v.Value]; ok {
				continue
			}
			if len(merged.Values) >= 3 {
				continue
			}
			seenValues[v.Value] = struct{}{}
			merged.Values = append(merged.Values, v)
		}
	}

	for theme, coverage := range themeCoverage {
		merged.Themes = append(merged.Themes, dto.NarrativeTheme{
			Theme:    theme,
			Coverage: coverage,
			Examples: themeExamples[theme],
		})
	}
	sort.SliceStable(merged.Themes, func(i, j int) bool {
		return merged.Themes[i].Coverage > merged.Themes[j].Coverage
	})
	if len(merged.Themes) > 5 {
		merged.Themes = merged.Themes[:5]
	}

	return merged
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

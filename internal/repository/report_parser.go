package repository

import (
	"fmt"
	"strconv"
	"strings"

	"newslens/internal/dto"
)

// ParseReport converts a key=value model response into a structured result.
// Malformed numeric values default to 0; the bias score is clamped to
// [-5, +5]. An empty or keyless response is an error.
func ParseReport(raw string) (*dto.BatchAnalysisResult, error) {
	fields := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("analysis response contains no key=value lines")
	}

	result := &dto.BatchAnalysisResult{
		NarrativeConfidence:         parseFloat(fields["narrative_confidence"]),
		SentimentPositivePercentage: parseFloat(fields["sentiment_positive_percentage"]),
		SentimentNegativePercentage: parseFloat(fields["sentiment_negative_percentage"]),
		SentimentNeutralPercentage:  parseFloat(fields["sentiment_neutral_percentage"]),
		SentimentConfidence:         parseFloat(fields["sentiment_confidence"]),
		BiasPoliticalScore:          clampBias(parseFloat(fields["bias_political_score"])),
		BiasPoliticalLeaning:        fields["bias_political_leaning"],
		BiasSupportingEvidence:      fields["bias_supporting_evidence"],
		BiasConfidence:              parseFloat(fields["bias_confidence"]),
		ValuesConfidence:            parseFloat(fields["values_confidence"]),
	}

	for i := 1; i <= 5; i++ {
		theme := fields[fmt.Sprintf("main_narrative_theme_%d", i)]
		if theme == "" {
			continue
		}
		result.Themes = append(result.Themes, dto.NarrativeTheme{
			Theme:    theme,
			Coverage: parseFloat(fields[fmt.Sprintf("theme_main_coverage_%d", i)]),
			Examples: fields[fmt.Sprintf("theme_examples_%d", i)],
		})
	}

	for i := 1; i <= 3; i++ {
		value := fields[fmt.Sprintf("values_promoted_%d", i)]
		if value == "" {
			continue
		}
		result.Values = append(result.Values, dto.PromotedValue{
			Value:    value,
			Examples: fields[fmt.Sprintf("values_examples_%d", i)],
		})
	}

	return result, nil
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func clampBias(score float64) float64 {
	if score < -5 {
		return -5
	}
	if score > 5 {
		return 5
	}
	return score
}

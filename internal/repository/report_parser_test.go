package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `main_narrative_theme_1=Economic policy
theme_main_coverage_1=45
theme_examples_1=Central bank holds rates
main_narrative_theme_2=Foreign affairs
theme_main_coverage_2=30
theme_examples_2=Summit ends without agreement
narrative_confidence=0.8
sentiment_positive_percentage=20
sentiment_negative_percentage=50
sentiment_neutral_percentage=30
sentiment_confidence=0.75
bias_political_score=-1.5
bias_political_leaning=center-left
bias_supporting_evidence=Framing favors spending programs
bias_confidence=0.6
values_promoted_1=Accountability
values_examples_1=Minister questioned over contracts
values_confidence=0.7`

func TestParseReport(t *testing.T) {
	result, err := ParseReport(sampleReport)
	require.NoError(t, err)

	require.Len(t, result.Themes, 2)
	assert.Equal(t, "Economic policy", result.Themes[0].Theme)
	assert.Equal(t, 45.0, result.Themes[0].Coverage)
	assert.Equal(t, "Foreign affairs", result.Themes[1].Theme)

	assert.Equal(t, 20.0, result.SentimentPositivePercentage)
	assert.Equal(t, 50.0, result.SentimentNegativePercentage)
	assert.Equal(t, 30.0, result.SentimentNeutralPercentage)

	assert.Equal(t, -1.5, result.BiasPoliticalScore)
	assert.Equal(t, "center-left", result.BiasPoliticalLeaning)

	require.Len(t, result.Values, 1)
	assert.Equal(t, "Accountability", result.Values[0].Value)
	assert.Equal(t, 0.7, result.ValuesConfidence)
}

func TestParseReport_MalformedNumericsDefaultToZero(t *testing.T) {
	result, err := ParseReport("main_narrative_theme_1=Theme\ntheme_main_coverage_1=lots\nsentiment_positive_percentage=n/a")
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Themes[0].Coverage)
	assert.Equal(t, 0.0, result.SentimentPositivePercentage)
}

func TestParseReport_ClampsBias(t *testing.T) {
	result, err := ParseReport("bias_political_score=12\nbias_political_leaning=right")
	require.NoError(t, err)
	assert.Equal(t, 5.0, result.BiasPoliticalScore)

	result, err = ParseReport("bias_political_score=-9")
	require.NoError(t, err)
	assert.Equal(t, -5.0, result.BiasPoliticalScore)
}

func TestParseReport_Empty(t *testing.T) {
	_, err := ParseReport("")
	require.Error(t, err)

	_, err = ParseReport("free text without any keys")
	require.Error(t, err)
}

func TestParseReport_SkipsEmptyThemeSlots(t *testing.T) {
	result, err := ParseReport("main_narrative_theme_1=Only theme\ntheme_main_coverage_1=100")
	require.NoError(t, err)
	assert.Len(t, result.Themes, 1)
	assert.Empty(t, result.Values)
}

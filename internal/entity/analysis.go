package entity

import "time"

// Analysis is one per-source daily media analysis. The (source_id,
// analysis_date) pair is unique so re-running a day never duplicates rows.
type Analysis struct {
	ID                string `gorm:"column:id;primaryKey" json:"id"`
	SourceID          uint   `gorm:"column:source_id;uniqueIndex:idx_analyses_source_date;not null" json:"source_id"`
	AnalysisDate      string `gorm:"column:analysis_date;uniqueIndex:idx_analyses_source_date;not null" json:"analysis_date"`
	NumbersOfArticles int    `gorm:"column:numbers_of_articles" json:"numbers_of_articles"`

	MainNarrativeTheme1     string  `gorm:"column:main_narrative_theme_1" json:"main_narrative_theme_1"`
	ThemeMainCoverage1      float64 `gorm:"column:theme_main_coverage_1" json:"theme_main_coverage_1"`
	ThemeExamples1          string  `gorm:"column:theme_examples_1" json:"theme_examples_1"`
	MainNarrativeTheme2     string  `gorm:"column:main_narrative_theme_2" json:"main_narrative_theme_2"`
	ThemeMainCoverage2      float64 `gorm:"column:theme_main_coverage_2" json:"theme_main_coverage_2"`
	ThemeExamples2          string  `gorm:"column:theme_examples_2" json:"theme_examples_2"`
	MainNarrativeTheme3     string  `gorm:"column:main_narrative_theme_3" json:"main_narrative_theme_3"`
	ThemeMainCoverage3      float64 `gorm:"column:theme_main_coverage_3" json:"theme_main_coverage_3"`
	ThemeExamples3          string  `gorm:"column:theme_examples_3" json:"theme_examples_3"`
	MainNarrativeTheme4     string  `gorm:"column:main_narrative_theme_4" json:"main_narrative_theme_4"`
	ThemeMainCoverage4      float64 `gorm:"column:theme_main_coverage_4" json:"theme_main_coverage_4"`
	ThemeExamples4          string  `gorm:"column:theme_examples_4" json:"theme_examples_4"`
	MainNarrativeTheme5     string  `gorm:"column:main_narrative_theme_5" json:"main_narrative_theme_5"`
	ThemeMainCoverage5      float64 `gorm:"column:theme_main_coverage_5" json:"theme_main_coverage_5"`
	ThemeExamples5          string  `gorm:"column:theme_examples_5" json:"theme_examples_5"`
	NarrativeConfidence     float64 `gorm:"column:narrative_confidence" json:"narrative_confidence"`

	SentimentPositivePercentage float64 `gorm:"column:sentiment_positive_percentage" json:"sentiment_positive_percentage"`
	SentimentNegativePercentage float64 `gorm:"column:sentiment_negative_percentage" json:"sentiment_negative_percentage"`
	SentimentNeutralPercentage  float64 `gorm:"column:sentiment_neutral_percentage" json:"sentiment_neutral_percentage"`
	SentimentConfidence         float64 `gorm:"column:sentiment_confidence" json:"sentiment_confidence"`

	BiasPoliticalScore      float64 `gorm:"column:bias_political_score" json:"bias_political_score"`
	BiasPoliticalLeaning    string  `gorm:"column:bias_political_leaning" json:"bias_political_leaning"`
	BiasSupportingEvidence  string  `gorm:"column:bias_supporting_evidence" json:"bias_supporting_evidence"`
	BiasConfidence          float64 `gorm:"column:bias_confidence" json:"bias_confidence"`

	ValuesPromoted1   string  `gorm:"column:values_promoted_1" json:"values_promoted_1"`
	ValuesExamples1   string  `gorm:"column:values_examples_1" json:"values_examples_1"`
	ValuesPromoted2   string  `gorm:"column:values_promoted_2" json:"values_promoted_2"`
	ValuesExamples2   string  `gorm:"column:values_examples_2" json:"values_examples_2"`
	ValuesPromoted3   string  `gorm:"column:values_promoted_3" json:"values_promoted_3"`
	ValuesExamples3   string  `gorm:"column:values_examples_3" json:"values_examples_3"`
	ValuesConfidence  float64 `gorm:"column:values_confidence" json:"values_confidence"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for the Analysis entity.
func (Analysis) TableName() string {
	return "analyses"
}

package dto

// NarrativeTheme is one dominant theme found in a batch of articles.
type NarrativeTheme struct {
	Theme    string  `json:"theme"`
	Coverage float64 `json:"coverage"`
	Examples string  `json:"examples"`
}

// PromotedValue is a value the coverage promotes, with headline examples.
type PromotedValue struct {
	Value    string `json:"value"`
	Examples string `json:"examples"`
}

// BatchAnalysisResult is the structured output of one analysis call.
type BatchAnalysisResult struct {
	NumbersOfArticles   int              `json:"numbers_of_articles"`
	Themes              []NarrativeTheme `json:"themes"`
	NarrativeConfidence float64          `json:"narrative_confidence"`

	SentimentPositivePercentage float64 `json:"sentiment_positive_percentage"`
	SentimentNegativePercentage float64 `json:"sentiment_negative_percentage"`
	SentimentNeutralPercentage  float64 `json:"sentiment_neutral_percentage"`
	SentimentConfidence         float64 `json:"sentiment_confidence"`

	BiasPoliticalScore     float64 `json:"bias_political_score"`
	BiasPoliticalLeaning   string  `json:"bias_political_leaning"`
	BiasSupportingEvidence string  `json:"bias_supporting_evidence"`
	BiasConfidence         float64 `json:"bias_confidence"`

	Values           []PromotedValue `json:"values"`
	ValuesConfidence float64         `json:"values_confidence"`
}

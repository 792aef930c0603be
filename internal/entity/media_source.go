package entity

import "time"

// MediaSource holds editorial metadata and bias ratings for a news outlet.
// Collection is gated on the outlet being present here.
type MediaSource struct {
	Source            string  `gorm:"column:source;primaryKey" json:"source"`
	Name              string  `gorm:"column:name" json:"name"`
	Country           string  `gorm:"column:country" json:"country"`
	FlagEmoji         string  `gorm:"column:flag_emoji" json:"flag_emoji"`
	LogoURL           string  `gorm:"column:logo_url" json:"logo_url"`
	Website           string  `gorm:"column:website" json:"website"`
	Owner             string  `gorm:"column:owner" json:"owner"`
	OwnershipCategory string  `gorm:"column:ownership_category" json:"ownership_category"`

	CalculatedBias           string  `gorm:"column:calculated_bias" json:"calculated_bias"`
	CalculatedBiasScore      float64 `gorm:"column:calculated_bias_score" json:"calculated_bias_score"`
	CalculatedBiasConfidence float64 `gorm:"column:calculated_bias_confidence" json:"calculated_bias_confidence"`

	AdFontesBias        string  `gorm:"column:ad_fontes_bias" json:"ad_fontes_bias"`
	AdFontesReliability float64 `gorm:"column:ad_fontes_reliability" json:"ad_fontes_reliability"`
	AllSidesBias        string  `gorm:"column:all_sides_bias" json:"all_sides_bias"`
	MBFCBias            string  `gorm:"column:mbfc_bias" json:"mbfc_bias"`
	MBFCFactual         string  `gorm:"column:mbfc_factual" json:"mbfc_factual"`
	MBFCCredibility     string  `gorm:"column:mbfc_credibility" json:"mbfc_credibility"`

	LastUpdated time.Time `gorm:"column:last_updated" json:"last_updated"`
}

// TableName specifies the table name for the MediaSource entity.
func (MediaSource) TableName() string {
	return "media_sources"
}

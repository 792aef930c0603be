package entity

import "time"

// Article is a normalized news item keyed by its content hash. Re-collecting
// the same title+description is a no-op at the storage layer.
type Article struct {
	ID              string    `gorm:"column:id;primaryKey" json:"id"`
	SourceID        uint      `gorm:"column:source_id;index;not null" json:"source_id"`
	RawTitle        string    `gorm:"column:raw_title" json:"raw_title"`
	RawDescription  string    `gorm:"column:raw_description" json:"raw_description"`
	CleanContent    string    `gorm:"column:clean_content" json:"clean_content"`
	Categories      string    `gorm:"column:categories" json:"categories"`
	Link            string    `gorm:"column:link" json:"link"`
	PublicationDate string    `gorm:"column:publication_date;index" json:"publication_date"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for the Article entity.
func (Article) TableName() string {
	return "articles"
}

package entity

import "time"

// Source is a news outlet that articles are collected from.
type Source struct {
	ID        uint      `gorm:"column:source_id;primaryKey;autoIncrement" json:"source_id"`
	Name      string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for the Source entity.
func (Source) TableName() string {
	return "sources"
}

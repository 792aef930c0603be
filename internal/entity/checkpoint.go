package entity

import "time"

// SchedulerCheckpoint records the last successful run of a scheduled action
// so restarts never repeat completed work.
type SchedulerCheckpoint struct {
	Name      string    `gorm:"column:name;primaryKey" json:"name"`
	Value     string    `gorm:"column:value" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for the SchedulerCheckpoint entity.
func (SchedulerCheckpoint) TableName() string {
	return "scheduler_checkpoints"
}

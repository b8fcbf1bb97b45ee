package models

import "time"

// DataTypeFullSync marks journal rows written by full snapshot syncs.
const DataTypeFullSync = "full_sync"

// SyncJournal is an append-only record of one synchronization call. Content
// holds a JSON summary of what the call carried and what happened to it.
type SyncJournal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DataType  string    `gorm:"size:50;index" json:"data_type"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

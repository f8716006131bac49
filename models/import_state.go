package models

import "time"

// Import status values reported to the caller.
const (
	StatusImported = "imported"
	StatusSkipped  = "skipped"
)

// ImportState is the per-brand ledger row recording the last successfully
// imported file version. It is overwritten on each import, never versioned.
// The table is intentionally not auto-migrated: its absence is a tolerated
// degraded mode, not a hard failure.
type ImportState struct {
	Brand      string    `gorm:"column:brand;primaryKey" json:"brand"`
	DateKey    string    `gorm:"column:date_key" json:"date_key"`
	FileName   string    `gorm:"column:file_name" json:"file_name"`
	ImportedAt time.Time `gorm:"column:imported_at" json:"imported_at"`
	RowCount   int       `gorm:"column:row_count" json:"row_count"`
	Inserted   int       `gorm:"column:inserted" json:"inserted"`
	Updated    int       `gorm:"column:updated" json:"updated"`
	Unchanged  int       `gorm:"column:unchanged" json:"unchanged"`
}

// TableName sets the ledger table name.
func (ImportState) TableName() string { return "master_import_state" }

// ImportSummary is the response payload for a master upload.
type ImportSummary struct {
	OK            bool   `json:"ok"`
	Brand         string `json:"brand"`
	File          string `json:"file"`
	Status        string `json:"status"`
	Total         int    `json:"total"`
	Inserted      int    `json:"inserted"`
	Updated       int    `json:"updated"`
	Unchanged     int    `json:"unchanged"`
	DateKey       string `json:"dateKey"`
	ArchiveBucket string `json:"archive_bucket"`
	ArchivePath   string `json:"archive_path"`
	StateWarning  string `json:"state_warning,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

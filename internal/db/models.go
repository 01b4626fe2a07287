package db

import "time"

// PipelineRun maps corpus.pipeline_runs, one row per end-to-end run.
type PipelineRun struct {
	RunID          int64      `gorm:"column:run_id;primaryKey;autoIncrement" json:"run_id"`
	RunUUID        string     `gorm:"column:run_uuid;type:uuid;not null;default:gen_random_uuid();unique" json:"run_uuid"`
	Mode           string     `gorm:"column:mode;type:text;not null" json:"mode"`
	ConfigPath     string     `gorm:"column:config_path;type:text;not null;default:''" json:"config_path"`
	OutputPath     string     `gorm:"column:output_path;type:text;not null;default:''" json:"output_path"`
	StartedAt      time.Time  `gorm:"column:started_at;type:timestamptz;not null;default:now()" json:"started_at"`
	FinishedAt     *time.Time `gorm:"column:finished_at;type:timestamptz" json:"finished_at,omitempty"`
	Status         string     `gorm:"column:status;type:text;not null;default:running" json:"status"`
	TotalProcessed int64      `gorm:"column:total_processed;type:bigint;not null;default:0" json:"total_processed"`
	TotalKept      int64      `gorm:"column:total_kept;type:bigint;not null;default:0" json:"total_kept"`
	TotalDropped   int64      `gorm:"column:total_dropped;type:bigint;not null;default:0" json:"total_dropped"`
	JudgeChecked   int64      `gorm:"column:judge_checked;type:bigint;not null;default:0" json:"judge_checked"`
	ExactDupes     int64      `gorm:"column:exact_dupes;type:bigint;not null;default:0" json:"exact_dupes"`
	NearDupes      int64      `gorm:"column:near_dupes;type:bigint;not null;default:0" json:"near_dupes"`
	ErrorMessage   *string    `gorm:"column:error_message;type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()" json:"updated_at"`
}

func (PipelineRun) TableName() string { return "corpus.pipeline_runs" }

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// SourceMixReport maps corpus.source_mix_reports, one row per source per run.
type SourceMixReport struct {
	ReportID    int64     `gorm:"column:report_id;primaryKey;autoIncrement" json:"report_id"`
	RunID       int64     `gorm:"column:run_id;type:bigint;not null;index" json:"run_id"`
	Source      string    `gorm:"column:source;type:text;not null" json:"source"`
	Available   int64     `gorm:"column:available;type:bigint;not null;default:0" json:"available"`
	Target      int64     `gorm:"column:target;type:bigint;not null;default:0" json:"target"`
	Selected    int64     `gorm:"column:selected;type:bigint;not null;default:0" json:"selected"`
	Share       float64   `gorm:"column:share;type:double precision;not null;default:0" json:"share"`
	PctOfTarget float64   `gorm:"column:pct_of_target;type:double precision;not null;default:0" json:"pct_of_target"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"created_at"`
}

func (SourceMixReport) TableName() string { return "corpus.source_mix_reports" }

func autoMigrateModels() []any {
	return []any{
		&PipelineRun{},
		&SourceMixReport{},
	}
}

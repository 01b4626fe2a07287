package db

import (
	"context"
	"fmt"
	"time"

	"horse.fit/corpus/internal/mix"
	"horse.fit/corpus/internal/pipeline"
)

// InsertRun opens a ledger row for a starting run and returns it with the
// generated identifiers populated.
func (p *Pool) InsertRun(ctx context.Context, mode, configPath, outputPath string) (*PipelineRun, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	run := &PipelineRun{
		Mode:       mode,
		ConfigPath: configPath,
		OutputPath: outputPath,
		Status:     RunStatusRunning,
	}
	if err := p.gdb.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("insert pipeline run: %w", err)
	}
	return run, nil
}

// FinishRun closes a ledger row with the run's final counters. A non-empty
// errorMessage marks the run failed.
func (p *Pool) FinishRun(ctx context.Context, runID int64, summary *pipeline.Summary, errorMessage string) error {
	if p == nil || p.gdb == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"finished_at": &now,
		"status":      RunStatusSucceeded,
		"updated_at":  now,
	}
	if errorMessage != "" {
		updates["status"] = RunStatusFailed
		updates["error_message"] = errorMessage
	}
	if summary != nil {
		updates["total_processed"] = summary.Counters.Total
		updates["total_kept"] = summary.Counters.Kept
		updates["total_dropped"] = summary.Counters.Dropped()
		updates["judge_checked"] = summary.Counters.JudgeChecked
		updates["exact_dupes"] = summary.DedupStats.ExactDuplicates
		updates["near_dupes"] = summary.DedupStats.NearDuplicates
	}

	res := p.gdb.WithContext(ctx).Model(&PipelineRun{}).Where("run_id = ?", runID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("finish pipeline run: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoRows
	}
	return nil
}

// InsertMixReports stores the per-source composition of a finished run.
func (p *Pool) InsertMixReports(ctx context.Context, runID int64, reports []mix.Report) error {
	if p == nil || p.gdb == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	if len(reports) == 0 {
		return nil
	}

	rows := make([]SourceMixReport, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, SourceMixReport{
			RunID:       runID,
			Source:      report.Source,
			Available:   int64(report.Available),
			Target:      int64(report.Target),
			Selected:    int64(report.Selected),
			Share:       report.Share,
			PctOfTarget: report.PctOfTarget,
		})
	}
	if err := p.gdb.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert mix reports: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (p *Pool) ListRuns(ctx context.Context, limit int) ([]PipelineRun, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var runs []PipelineRun
	err := p.gdb.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list pipeline runs: %w", err)
	}
	return runs, nil
}

// GetRun resolves one run by its public UUID.
func (p *Pool) GetRun(ctx context.Context, runUUID string) (*PipelineRun, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	var run PipelineRun
	err := p.gdb.WithContext(ctx).Where("run_uuid = ?", runUUID).First(&run).Error
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("get pipeline run: %w", err)
	}
	return &run, nil
}

// GetRunMixReports returns the mix reports of one run.
func (p *Pool) GetRunMixReports(ctx context.Context, runID int64) ([]SourceMixReport, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	var reports []SourceMixReport
	err := p.gdb.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("source ASC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("get run mix reports: %w", err)
	}
	return reports, nil
}

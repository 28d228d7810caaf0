package models

import "time"

// GenerationStatus is the lifecycle state of a generation run.
type GenerationStatus string

const (
	GenerationStatusRunning GenerationStatus = "RUNNING"
	GenerationStatusSuccess GenerationStatus = "SUCCESS"
	GenerationStatusFailed  GenerationStatus = "FAILED"
)

// Terminal reports whether no further transition is allowed.
func (s GenerationStatus) Terminal() bool {
	return s == GenerationStatusSuccess || s == GenerationStatusFailed
}

// GenerationRun is the persisted summary of one schedule generation invocation.
type GenerationRun struct {
	ID             string           `db:"id" json:"id"`
	ExecutedBy     string           `db:"executed_by" json:"executedBy"`
	ExecutedAt     time.Time        `db:"executed_at" json:"executedAt"`
	Status         GenerationStatus `db:"status" json:"status"`
	TotalGenerated int              `db:"total_generated" json:"totalGenerated"`
	Message        string           `db:"message" json:"message"`
	PeriodStart    Date             `db:"period_start" json:"periodStart"`
	PeriodEnd      Date             `db:"period_end" json:"periodEnd"`
	DryRun         bool             `db:"dry_run" json:"dryRun"`
	Force          bool             `db:"force_flag" json:"force"`
	Params         *string          `db:"params" json:"params,omitempty"`
}

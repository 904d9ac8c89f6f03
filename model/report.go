package model

import "time"

type Timeframe string

const TIMEFRAME_DAILY Timeframe = "DAILY"
const TIMEFRAME_WEEKLY Timeframe = "WEEKLY"
const TIMEFRAME_MONTHLY Timeframe = "MONTHLY"
const TIMEFRAME_QUARTERLY Timeframe = "QUARTERLY"

type Recipient struct {
	Email string `json:"email"`
}

type ScheduledReport struct {
	Id                    string      `json:"id"`
	Name                  string      `json:"name"`
	MetricType            string      `json:"metricType"`
	Timeframe             Timeframe   `json:"timeframe"`
	Recipients            []Recipient `json:"recipients"`
	IncludeDataExport     bool        `json:"includeDataExport"`
	IncludeVisualizations bool        `json:"includeVisualizations"`
	IsActive              bool        `json:"isActive"`
	DepartmentId          string      `json:"departmentId,omitempty"`
	LastRun               *time.Time  `json:"lastRun,omitempty"`
	NextRun               *time.Time  `json:"nextRun,omitempty"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
}

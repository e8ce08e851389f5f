package model

// EngagementMetrics are the worked-hours figures derived for a project or
// service contract. They are computed per request and never persisted.
type EngagementMetrics struct {
	ActualHours             float64 `json:"actualHours"`
	EstimatedHoursFromTasks float64 `json:"estimatedHoursFromTasks"`
	HourlyRate              float64 `json:"hourlyRate"`
	IsUnderThreshold        bool    `json:"isUnderThreshold"`
}

// PeriodBucket accumulates hours and event count for one period key,
// "YYYY-Www" for ISO weeks or "YYYY-MM" for months.
type PeriodBucket struct {
	Period string  `json:"period"`
	Hours  float64 `json:"hours"`
	Events int     `json:"events"`
}

// EngagementBreakdown lists buckets in the order their periods were first seen.
type EngagementBreakdown struct {
	Weekly  []PeriodBucket `json:"weekly"`
	Monthly []PeriodBucket `json:"monthly"`
}

// EngagementReport is the metrics record plus the optional breakdown.
type EngagementReport struct {
	EngagementMetrics
	Breakdown *EngagementBreakdown `json:"breakdown,omitempty"`
}

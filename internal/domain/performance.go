package domain

// NotificationPerformance is one day of synthesized engagement metrics for a
// single notification. Records are written in bulk and never modified.
type NotificationPerformance struct {
	ID           int64        `json:"id"`
	Notification Notification `json:"notification"`
	Date         Date         `json:"date"`
	Impressions  int          `json:"impressions"`
	Clicks       int          `json:"clicks"`
	Conversions  int          `json:"conversions"`
	CTR          Rate         `json:"ctr"`
	CVR          Rate         `json:"cvr"`
}

// PerformanceSummary aggregates the records of one notification over a date range.
// Rates are recomputed from the summed counters, not averaged.
type PerformanceSummary struct {
	NotificationID   int64  `json:"notificationId"`
	NotificationName string `json:"notificationName"`
	Days             int    `json:"days"`
	Impressions      int64  `json:"impressions"`
	Clicks           int64  `json:"clicks"`
	Conversions      int64  `json:"conversions"`
	CTR              Rate   `json:"ctr"`
	CVR              Rate   `json:"cvr"`
}

// DateRange is an inclusive calendar range as received in query parameters.
type DateRange struct {
	Start string `json:"startDate" validate:"required,datetime=2006-01-02"`
	End   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// GenerationReport describes one completed Generate call.
type GenerationReport struct {
	BatchID       string `json:"batchId"`
	WindowStart   Date   `json:"windowStart"`
	WindowEnd     Date   `json:"windowEnd"`
	Notifications int    `json:"notifications"`
	Records       int    `json:"records"`
}

package models

// PendingAction is an open action item surfaced on the dashboard
type PendingAction struct {
	Title    string `json:"title" example:"Send the Q3 invoice"`
	Desc     string `json:"desc" example:"From: jane@acme.com"`
	Priority string `json:"priority" example:"High"`
	EmailID  int    `json:"email_id" example:"42"`
}

// AnalyticsData is the backend's dashboard summary
type AnalyticsData struct {
	TimeSavedHours         float64         `json:"time_saved_hours" example:"3.2"`
	MoneySaved             float64         `json:"money_saved" example:"160"`
	TasksAutomated         int             `json:"tasks_automated" example:"39"`
	EfficiencyScorePercent int             `json:"efficiency_score_percent" example:"54"`
	PendingActions         []PendingAction `json:"pending_actions"`
}

// AnalyticsResponse represents the API response for analytics
// @Description Analytics response payload
type AnalyticsResponse struct {
	Analytics AnalyticsData `json:"analytics"`
	Degraded  bool          `json:"degraded,omitempty"`
	Error     string        `json:"error,omitempty" example:""`
}

package models

// Reply tones understood by the backend
const (
	ToneProfessional = "Professional"
	ToneFriendly     = "Friendly"
	ToneUrgent       = "Urgent"
	ToneConcise      = "Concise"
)

// AISettings controls how the backend drafts replies
type AISettings struct {
	Tone       string   `json:"tone" example:"Professional"`
	Signature  string   `json:"signature" example:"Best,\nJane"`
	HourlyRate *float64 `json:"hourly_rate,omitempty" example:"50"`
}

// DefaultSettings returns the settings shown when none can be loaded
func DefaultSettings() AISettings {
	return AISettings{Tone: ToneProfessional, Signature: ""}
}

// SettingsResponse wraps settings for the dashboard
// @Description AI settings
type SettingsResponse struct {
	Status   string     `json:"status,omitempty" example:"success"`
	Settings AISettings `json:"settings"`
	Degraded bool       `json:"degraded,omitempty"`
	Error    string     `json:"error,omitempty"`
}

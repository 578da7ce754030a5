package models

// InboxRow is one inbox message as rendered on the dashboard
type InboxRow struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Subject   string `json:"subject"`
	Preview   string `json:"preview"`
	Direction string `json:"direction"` // ltr or rtl
	Analyzed  bool   `json:"analyzed"`
	Selected  bool   `json:"selected"`
}

// InboxView is the inbox tab of the history page
// @Description Inbox view with analyzed and selection state
type InboxView struct {
	Messages      []InboxRow `json:"messages"`
	Total         int        `json:"total"` // held messages, including hidden ones
	NextPageToken string     `json:"next_page_token,omitempty"`
	HasMore       bool       `json:"has_more"`
	SelectedCount int        `json:"selected_count"`
	HideAnalyzed  bool       `json:"hide_analyzed"`
	Degraded      bool       `json:"degraded,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// SelectionResponse reports the selection state after a toggle
// @Description Selection toggle result
type SelectionResponse struct {
	ID       string   `json:"id"`
	Selected bool     `json:"selected"`
	Analyzed bool     `json:"analyzed"`
	IDs      []string `json:"selected_ids"`
}

// HistoryRow is one analyzed email as rendered on the dashboard
type HistoryRow struct {
	AnalyzedEmail
	ActionItems  []ActionItem `json:"action_items"`
	PlainBody    string       `json:"plain_body"`
	Direction    string       `json:"direction"` // ltr or rtl
	RelativeTime string       `json:"relative_time"`
}

// HistoryView is the filtered history listing
// @Description Filtered history view
type HistoryView struct {
	Items    []HistoryRow `json:"items"`
	Total    int          `json:"total"`    // held records before filtering
	Filtered int          `json:"filtered"` // records after filtering
	Degraded bool         `json:"degraded,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// SuggestedReplyRequest edits the suggested reply of a held history record
// @Description Suggested reply edit payload
type SuggestedReplyRequest struct {
	SuggestedReply string `json:"suggested_reply" example:"Thanks Jane, quote attached."`
}

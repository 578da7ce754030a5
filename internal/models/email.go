package models

import (
	"encoding/json"
	"fmt"
)

// Email categories assigned by the backend analysis
const (
	CategoryLead    = "Lead"
	CategoryInvoice = "Invoice"
	CategorySupport = "Support"
	CategorySpam    = "Spam"
	CategoryOther   = "Other"
)

// Sentiments assigned by the backend analysis
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// Action item priorities
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Categories lists every category in display order
var Categories = []string{CategoryLead, CategoryInvoice, CategorySupport, CategorySpam, CategoryOther}

// Sentiments lists every sentiment in display order
var Sentiments = []string{SentimentPositive, SentimentNeutral, SentimentNegative}

// ActionItem is a single follow-up extracted from an email
type ActionItem struct {
	Description string `json:"description" example:"Send the Q3 invoice"`
	Priority    string `json:"priority" example:"High"` // High, Medium, Low
}

// EmailRequest is the payload for a single email analysis
// @Description Email analysis request payload
type EmailRequest struct {
	Sender  string `json:"sender" example:"jane@acme.com"`
	Subject string `json:"subject" example:"Pricing for 50 seats"`
	Body    string `json:"body" example:"Hi, could you send a quote?"`
}

// EmailAnalysis is the backend's analysis of one email
// @Description AI analysis of an email
type EmailAnalysis struct {
	Category       string       `json:"category" example:"Lead"`
	Summary        string       `json:"summary" example:"Prospect asks for a 50 seat quote"`
	Sentiment      string       `json:"sentiment" example:"Positive"`
	Urgency        int          `json:"urgency" example:"7"`
	ActionItems    []ActionItem `json:"action_items"`
	SuggestedReply *string      `json:"suggested_reply"`
}

// AnalyzedEmail is a history record: an email the backend has analyzed and stored
type AnalyzedEmail struct {
	ID              int     `json:"id"`
	GmailMessageID  string  `json:"gmail_message_id"`
	Sender          string  `json:"sender"`
	Subject         string  `json:"subject"`
	Body            string  `json:"body"`
	Category        string  `json:"category"`
	Summary         string  `json:"summary"`
	Sentiment       string  `json:"sentiment"`
	Urgency         int     `json:"urgency"`
	SuggestedReply  *string `json:"suggested_reply"`
	ActionItemsJSON string  `json:"action_items_json"`
	CreatedAt       string  `json:"created_at"` // backend clock, naive UTC
	IsReplied       bool    `json:"is_replied,omitempty"`
}

// ActionItems decodes the ordered action items stored with the record
func (e AnalyzedEmail) ActionItems() ([]ActionItem, error) {
	if e.ActionItemsJSON == "" {
		return []ActionItem{}, nil
	}

	var items []ActionItem
	if err := json.Unmarshal([]byte(e.ActionItemsJSON), &items); err != nil {
		return nil, fmt.Errorf("failed to decode action items for email %d: %w", e.ID, err)
	}
	if items == nil {
		items = []ActionItem{}
	}
	return items, nil
}

// InboxMessage is a raw Gmail message fetched for potential analysis
type InboxMessage struct {
	ID      string `json:"id" example:"18c2f0a9d1e4b7aa"`
	Sender  string `json:"sender" example:"jane@acme.com"`
	Subject string `json:"subject" example:"Pricing for 50 seats"`
	Body    string `json:"body" example:"Hi, could you send a quote?"`
}

// InboxPage is one page of inbox messages. NextPageToken is empty on the last page.
type InboxPage struct {
	Messages      []InboxMessage `json:"emails"`
	NextPageToken string         `json:"next_page_token"`
}

// ReplyRequest is the payload for sending a reply or creating a draft
// @Description Reply or draft request payload
type ReplyRequest struct {
	To      string `json:"to" example:"jane@acme.com"`
	Subject string `json:"subject" example:"Re: Pricing for 50 seats"`
	Body    string `json:"body" example:"Hi Jane, attached is the quote."`
	EmailID *int   `json:"email_id,omitempty" example:"42"`
}

package models

// KnowledgeItem is a snippet of business context used to ground AI replies
type KnowledgeItem struct {
	ID        int    `json:"id" example:"3"`
	Topic     string `json:"topic" example:"Pricing"`
	Content   string `json:"content" example:"Seats are $12/month, 10% off annually"`
	CreatedAt string `json:"created_at" example:"2024-05-01T09:30:00"`
}

// KnowledgeRequest is the payload for creating a knowledge item
// @Description Knowledge base item request payload
type KnowledgeRequest struct {
	Topic   string `json:"topic" example:"Pricing"`
	Content string `json:"content" example:"Seats are $12/month, 10% off annually"`
}

// KnowledgeListResponse wraps the knowledge base for the dashboard
// @Description Knowledge base listing
type KnowledgeListResponse struct {
	Items    []KnowledgeItem `json:"items"`
	Degraded bool            `json:"degraded,omitempty"`
	Error    string          `json:"error,omitempty"`
}

package response

import "time"

type InsightResponse struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Emoji       string    `json:"emoji"`
	Type        string    `json:"type"`
}

type GetInsightsResponse struct {
	Insights []InsightResponse `json:"insights"`
}

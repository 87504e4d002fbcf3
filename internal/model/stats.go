package model

import "time"

// DailyConversationCount is one day of conversation starts.
type DailyConversationCount struct {
	Day   time.Time
	Count int64
}

type ChartPoint struct {
	Date          string `json:"date"`
	Conversations int64  `json:"conversations"`
}

// StatsResponse is the dashboard overview payload. Key names match the
// dashboard chart contract.
type StatsResponse struct {
	TotalConversations  int64        `json:"totalConversations"`
	TotalMessages       int64        `json:"totalMessages"`
	RecentConversations int64        `json:"recentConversations"`
	ChartData           []ChartPoint `json:"chartData"`
}

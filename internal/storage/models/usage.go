package models

import "time"

// DailyUsage represents aggregated usage stats for a day
type DailyUsage struct {
	Date             string `json:"date"` // YYYY-MM-DD
	Endpoint         string `json:"endpoint"`
	Model            string `json:"model"`
	RequestCount     int    `json:"request_count"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	ErrorCount       int    `json:"error_count"`
}

// EndpointStats represents usage statistics for a specific endpoint
type EndpointStats struct {
	Endpoint         string `json:"endpoint"`
	RequestCount     int    `json:"request_count"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	ErrorCount       int    `json:"error_count"`
}

// UsageStats represents aggregated usage statistics
type UsageStats struct {
	TotalRequests         int                       `json:"total_requests"`
	TotalTokens           int                       `json:"total_tokens"`
	TotalPromptTokens     int                       `json:"prompt_tokens"`
	TotalCompletionTokens int                       `json:"completion_tokens"`
	ErrorCount            int                       `json:"error_count"`
	EndpointBreakdown     map[string]*EndpointStats `json:"endpoints,omitempty"`
}

// StatsFilter contains parameters for filtering usage statistics
type StatsFilter struct {
	Endpoint  string
	Model     string
	StartDate *time.Time
	EndDate   *time.Time
}

package models

// ScrapeResponse is the envelope for POST /api/v1/scrape.
type ScrapeResponse struct {
	// Success indicates whether the scrape produced a record.
	Success bool `json:"success"`

	// Record is the extraction result. Nil when Success is false.
	Record *ExtractionRecord `json:"record,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	CacheEntries int    `json:"cache_entries"`
	Version      string `json:"version"`
}

package app

// EngagementMetrics summarizes how long the counterpart was kept
// engaged.
type EngagementMetrics struct {
	TotalMessagesExchanged    int `json:"totalMessagesExchanged"`
	EngagementDurationSeconds int `json:"engagementDurationSeconds"`
}

// FinalOutput is the terminal session summary. It exists only once the
// service reports the session finalized, and is immutable after fetch.
type FinalOutput struct {
	Status                 string            `json:"status,omitempty"`
	SessionID              string            `json:"sessionId"`
	ScamDetected           bool              `json:"scamDetected"`
	ScamType               string            `json:"scamType,omitempty"`
	ConfidenceLevel        float64           `json:"confidenceLevel,omitempty"`
	TotalMessagesExchanged int               `json:"totalMessagesExchanged"`
	ExtractedIntelligence  Intelligence      `json:"extractedIntelligence"`
	EngagementMetrics      EngagementMetrics `json:"engagementMetrics"`
	AgentNotes             string            `json:"agentNotes"`
}

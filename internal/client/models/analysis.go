package models

// ExtractedEvent is an event proposed by the analyzer for one email.
type ExtractedEvent struct {
	Title       string    `json:"title"`
	Start       Timestamp `json:"start"`
	End         Timestamp `json:"end"`
	Description string    `json:"description,omitempty"`
}

// ExtractedTask is a task proposed by the analyzer for one email.
type ExtractedTask struct {
	Title   string     `json:"title"`
	DueDate *Timestamp `json:"due_date,omitempty"`
}

// Analysis is the analyzer's output for a single email.
type Analysis struct {
	Events []ExtractedEvent `json:"events"`
	Tasks  []ExtractedTask  `json:"tasks"`
}

// AnalysisResult ties an Analysis to its source email.
type AnalysisResult struct {
	EmailID  ID       `json:"email_id"`
	Subject  string   `json:"subject"`
	Sender   string   `json:"sender"`
	Analysis Analysis `json:"analysis"`
}

// AnalysisHistoryEntry records one analysis run.
type AnalysisHistoryEntry struct {
	ID              ID               `json:"id" validate:"required"`
	Timestamp       Timestamp        `json:"timestamp"`
	TotalEmails     int              `json:"total_emails"`
	TotalAnalyzed   int              `json:"total_analyzed"`
	Status          string           `json:"status"`
	AnalysisResults []AnalysisResult `json:"analysis_results"`
	EventsSaved     int              `json:"events_saved"`
	TodosSaved      int              `json:"todos_saved"`
}

// AnalyzeSummary is returned by both analyze endpoints.
type AnalyzeSummary struct {
	Success       bool             `json:"success"`
	EmailID       ID               `json:"email_id,omitempty"`
	Analysis      *Analysis        `json:"analysis,omitempty"`
	TotalEmails   int              `json:"total_emails"`
	TotalAnalyzed int              `json:"total_analyzed"`
	TotalSaved    int              `json:"total_saved"`
	Results       []AnalysisResult `json:"results,omitempty"`
	Errors        []string         `json:"errors,omitempty"`
	Message       string           `json:"message,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// PollingStatus reports the backend's mailbox poller.
type PollingStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

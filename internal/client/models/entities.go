package models

// Email is a message fetched by the backend. It is never persisted locally.
type Email struct {
	ID      ID        `json:"id" validate:"required"`
	Subject string    `json:"subject"`
	Sender  string    `json:"sender"`
	Date    Timestamp `json:"date"`
	Body    string    `json:"body"`
}

// CalendarEvent is a confirmed event owned by the backend.
type CalendarEvent struct {
	ID          ID        `json:"id,omitempty" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Start       Timestamp `json:"start" validate:"required"`
	End         Timestamp `json:"end" validate:"required"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
}

// Todo is a confirmed task owned by the backend.
type Todo struct {
	ID        ID         `json:"id,omitempty" validate:"required"`
	Title     string     `json:"title" validate:"required"`
	Completed bool       `json:"completed"`
	DueDate   *Timestamp `json:"due_date,omitempty"`
	Memo      string     `json:"memo,omitempty"`
}

// CandidateStatus is the review state of an extracted candidate.
type CandidateStatus string

const (
	StatusPending  CandidateStatus = "pending"
	StatusApproved CandidateStatus = "approved"
	StatusRejected CandidateStatus = "rejected"
)

// Candidate carries the review fields shared by event and todo candidates.
// A missing status means pending.
type Candidate struct {
	Status    CandidateStatus `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	CreatedAt Timestamp       `json:"created_at"`
	UserID    string          `json:"user_id,omitempty"`
}

// Pending reports whether the candidate still awaits a decision.
func (c Candidate) Pending() bool {
	return c.Status == "" || c.Status == StatusPending
}

// EventCandidate is an extracted event awaiting approval.
type EventCandidate struct {
	CalendarEvent
	Candidate
}

// TodoCandidate is an extracted todo awaiting approval.
type TodoCandidate struct {
	Todo
	Candidate
}

// PendingEvents returns the candidates that still await a decision.
func PendingEvents(in []EventCandidate) []EventCandidate {
	out := make([]EventCandidate, 0, len(in))
	for _, c := range in {
		if c.Pending() {
			out = append(out, c)
		}
	}
	return out
}

// PendingTodos returns the candidates that still await a decision.
func PendingTodos(in []TodoCandidate) []TodoCandidate {
	out := make([]TodoCandidate, 0, len(in))
	for _, c := range in {
		if c.Pending() {
			out = append(out, c)
		}
	}
	return out
}

// User describes the authenticated account.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Health is the backend liveness payload.
type Health struct {
	Status string `json:"status" validate:"required"`
}

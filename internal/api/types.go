package api

import (
	"time"

	"github.com/abhisek/dyscreen/internal/catalog"
)

// Session is the server-owned record of one screening session.
type Session struct {
	ID            string    `json:"id"`
	ProfileID     string    `json:"profile_id"`
	AuditoryTaken bool      `json:"auditory_taken"`
	VisualTaken   bool      `json:"visual_taken"`
	LanguageTaken bool      `json:"language_taken"`
	TotalScore    int       `json:"total_score"`
	Result        string    `json:"result"`
	CreatedAt     time.Time `json:"created_at"`
}

// SessionID returns the session id.
func (s Session) SessionID() string { return s.ID }

// Taken reports whether the server has a submission for the test.
func (s Session) Taken(t catalog.TestType) bool {
	switch t {
	case catalog.Auditory:
		return s.AuditoryTaken
	case catalog.Visual:
		return s.VisualTaken
	case catalog.Language:
		return s.LanguageTaken
	}
	return false
}

// Account is the logged-in parent or teacher.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Profile is a child screened under an account.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileInput is the body of create and update requests.
type ProfileInput struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// SectionSubmission is the score of one completed test.
type SectionSubmission struct {
	Score   int            `json:"score"`
	Details map[string]any `json:"details,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type selectResponse struct {
	ProfileToken string `json:"profile_token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

package store

import "time"

// Session represents the per-client state that survives between requests.
// An empty UserName means no identity has been set yet.
type Session struct {
	ID        string    `json:"id"`
	UserName  string    `json:"user_name"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// THE WORKBENCH (images the client is currently working on)
	CurrentUpload    string `json:"current_uploaded_filename"`
	CurrentProcessed string `json:"current_processed_filename"`
}

// Authenticated reports whether an identity has been resolved for the session.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserName != "" && s.UserID != 0
}

// Clone returns an independent copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

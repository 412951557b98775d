package notes

import "github.com/studykit/core/internal/transform"

type generateNotesDTO struct {
	Text      string `json:"text" binding:"required"`
	SessionID string `json:"session_id"`
}

type generateNotesFromURLDTO struct {
	URL       string `json:"url" binding:"required,url"`
	SessionID string `json:"session_id"`
}

type transformDTO struct {
	Format string `json:"format" binding:"required"`
}

type flashcardsFromTextDTO struct {
	Text string `json:"text" binding:"required"`
}

type notesResponse struct {
	SessionID string `json:"session_id"`
	Notes     string `json:"notes"`
}

type sessionResponse struct {
	SessionID string                                  `json:"session_id"`
	Notes     string                                  `json:"notes"`
	Artifacts map[transform.Format]*transform.Artifact `json:"artifacts"`
}

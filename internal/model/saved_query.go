package model

import "time"

// SavedQuery is a named search request body stored for reuse.
// Body is the generic request map exactly as the caller submitted it.
type SavedQuery struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Index     string         `json:"index"`
	Body      map[string]any `json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Export describes a finished search export in object storage.
type Export struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Count int64  `json:"count"`
	Size  int64  `json:"size"`
	URL   string `json:"url,omitempty"`
}

package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// formatTime normalizes t to UTC RFC3339 so lexical order matches time order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return t, nil
}

// nullableString converts a *string to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// stringPtr converts a sql.NullString into a *string.
func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// encodeTrack serializes a stage-id track into its JSON column form.
func encodeTrack(track []string) (string, error) {
	if track == nil {
		track = []string{}
	}
	b, err := json.Marshal(track)
	if err != nil {
		return "", fmt.Errorf("encoding track: %w", err)
	}
	return string(b), nil
}

func decodeTrack(s string) ([]string, error) {
	var track []string
	if err := json.Unmarshal([]byte(s), &track); err != nil {
		return nil, fmt.Errorf("decoding track: %w", err)
	}
	return track, nil
}

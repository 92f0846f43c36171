package model

import (
	"errors"
	"fmt"
	"strings"
)

// Field delimiters used by the flat-file encoding. A field containing any of
// these cannot be stored without corrupting the record.
const fieldDelimiters = ",\r\n"

// ErrInvalidField is returned by Validate when a field is empty or contains a
// record delimiter.
var ErrInvalidField = errors.New("invalid statistics server field")

// StatisticsServer is a statistics server entry: a web endpoint plus the SQL
// database and login it reports into. Identity is positional within the store.
type StatisticsServer struct {
	Name         string
	WebURL       string
	DatabaseName string
	Username     string
}

// Selection is what a caller receives when a server is picked in selection mode.
type Selection struct {
	DatabaseName string
	WebURL       string
	Username     string
}

// Selection returns the caller-facing part of the server.
func (s StatisticsServer) Selection() Selection {
	return Selection{
		DatabaseName: s.DatabaseName,
		WebURL:       s.WebURL,
		Username:     s.Username,
	}
}

// Summary returns the one-line description shown under the server name in lists.
func (s StatisticsServer) Summary() string {
	return fmt.Sprintf("Web-URL: %q - Database: %q", s.WebURL, s.DatabaseName)
}

// Validate reports whether every field can be encoded. Name, WebURL and
// DatabaseName are required; Username may be empty.
func (s StatisticsServer) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"name", s.Name},
		{"web url", s.WebURL},
		{"database name", s.DatabaseName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidField, f.name)
		}
		if strings.ContainsAny(f.value, fieldDelimiters) {
			return fmt.Errorf("%w: %s must not contain commas or line breaks", ErrInvalidField, f.name)
		}
	}
	if strings.ContainsAny(s.Username, fieldDelimiters) {
		return fmt.Errorf("%w: username must not contain commas or line breaks", ErrInvalidField)
	}
	return nil
}

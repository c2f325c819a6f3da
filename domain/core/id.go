package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// Domain-specific ID types
type (
	BatchID   ID
	SeriesKey ID
)

func (id BatchID) String() string   { return ID(id).String() }
func (id SeriesKey) String() string { return ID(id).String() }

// NewBatchID creates a time-ordered batch identifier
func NewBatchID() BatchID {
	return BatchID(NewID())
}

// ParseSeriesKey parses a series name, rejecting blanks
func ParseSeriesKey(s string) (SeriesKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("series name cannot be empty")
	}
	return SeriesKey(s), nil
}

// Package prefs persists per-user preferences: selected theme, pinned
// shortcuts, tone and verbosity choices for generated answers. Values are
// opaque JSON documents keyed by name.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a preference key does not exist.
var ErrNotFound = errors.New("preference not found")

// Preference is one stored entry.
type Preference struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt string          `json:"updated_at"`
}

// Repository is the storage contract. Implementations must be safe for
// concurrent use.
type Repository interface {
	Get(ctx context.Context, key string) (Preference, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Preference, error)
	Close() error
}

// ValidateKey rejects empty or oversized keys before they reach storage.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("preference key must not be empty")
	}
	if len(key) > 128 {
		return fmt.Errorf("preference key exceeds 128 characters")
	}
	return nil
}

// ValidateValue checks that a value is well-formed JSON of reasonable size.
func ValidateValue(value json.RawMessage) error {
	if len(value) == 0 {
		return fmt.Errorf("preference value must not be empty")
	}
	if len(value) > 64*1024 {
		return fmt.Errorf("preference value exceeds 64KiB")
	}
	if !json.Valid(value) {
		return fmt.Errorf("preference value is not valid JSON")
	}
	return nil
}

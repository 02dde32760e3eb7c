package config

import (
	"encoding/json"
	"fmt"
	"time"
)

const redactedPlaceholder = "[REDACTED]"

// Secret holds a credential that must never appear in logs or serialized
// output. Every formatting and marshaling path emits a placeholder; only
// Value hands back the real string.
type Secret string

// IsSet reports whether a value was configured.
func (s Secret) IsSet() bool { return s != "" }

// Value returns the underlying credential for use in requests.
func (s Secret) Value() string { return string(s) }

func (s Secret) String() string {
	if !s.IsSet() {
		return ""
	}
	return redactedPlaceholder
}

func (s Secret) GoString() string {
	return "Secret(" + redactedPlaceholder + ")"
}

func (s Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalText stores the raw value; this is the hook the config decoder
// uses for YAML and env sources.
func (s *Secret) UnmarshalText(text []byte) error {
	*s = Secret(text)
	return nil
}

// Duration is a time.Duration that decodes from strings like "30s" or "5m"
// in config files and environment variables. Negative values are rejected.
type Duration time.Duration

// Duration unwraps to the standard type.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("duration must not be negative, got %s", text)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration().String())
}

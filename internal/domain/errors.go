package domain

import "fmt"

// ConfigError is raised for missing or invalid configuration, before any
// network activity.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: %s %s", e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AuthError means the site did not accept the login.
type AuthError struct {
	Username string
	Err      error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not log in as %q: %v", e.Username, e.Err)
	}
	return fmt.Sprintf("could not log in as %q", e.Username)
}

func (e *AuthError) Unwrap() error { return e.Err }

// DetailFetchError is returned when a collage detail request fails, either
// on HTTP status or on the payload's own status marker.
type DetailFetchError struct {
	ID     string
	Status int
	Reason string
	Err    error
}

func (e *DetailFetchError) Error() string {
	msg := fmt.Sprintf("fetch collage %s", e.ID)
	if e.Status != 0 {
		msg += fmt.Sprintf(": http status %d", e.Status)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DetailFetchError) Unwrap() error { return e.Err }

// MalformedSnapshotError points at the snapshot line that failed to parse.
type MalformedSnapshotError struct {
	Path string
	Line int
	Err  error
}

func (e *MalformedSnapshotError) Error() string {
	return fmt.Sprintf("malformed snapshot %s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *MalformedSnapshotError) Unwrap() error { return e.Err }

package ingest

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	"github.com/qepting91/collage-tracker/internal/domain"
	"github.com/titanous/json5"
)

const (
	EnvUsername = "TRACKER_USERNAME"
	EnvPassword = "TRACKER_PASSWORD"
)

var utf8BOM = []byte("\uFEFF")

// LoadCredentials reads the login from a JSON5 file and lets the
// TRACKER_USERNAME and TRACKER_PASSWORD environment variables override it.
// The file may be absent when both variables are set.
func LoadCredentials(path string) (domain.Credentials, error) {
	var creds domain.Credentials

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json5.Unmarshal(stripBOM(raw), &creds); err != nil {
			return creds, &domain.ConfigError{Field: path, Reason: "is not valid JSON5", Err: err}
		}
	case errors.Is(err, fs.ErrNotExist):
		if os.Getenv(EnvUsername) == "" || os.Getenv(EnvPassword) == "" {
			return creds, &domain.ConfigError{Field: path, Reason: "not found and credentials not set in environment", Err: err}
		}
	default:
		return creds, &domain.ConfigError{Field: path, Reason: "could not be read", Err: err}
	}

	if v := os.Getenv(EnvUsername); v != "" {
		creds.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		creds.Password = v
	}
	return creds, creds.Validate()
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, utf8BOM)
}

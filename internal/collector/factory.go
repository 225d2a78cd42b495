package collector

import (
	"fmt"
	"os"

	"github.com/qepting91/collage-tracker/internal/domain"
)

const DefaultHost = "redacted.ch"

// NewCollector selects the correct implementation based on COLLECTOR_MODE
func NewCollector(opts GazelleOptions) (domain.Source, error) {
	mode := os.Getenv("COLLECTOR_MODE")

	switch mode {
	case "", "gazelle":
		if opts.Host == "" {
			opts.Host = os.Getenv("TRACKER_HOST")
		}
		if opts.Host == "" {
			opts.Host = DefaultHost
		}
		return NewGazelleClient(opts)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, &domain.ConfigError{
			Field:  "COLLECTOR_MODE",
			Reason: fmt.Sprintf("has unknown value %q (use 'gazelle' or 'mock')", mode),
		}
	}
}

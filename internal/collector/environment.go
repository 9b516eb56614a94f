// Environment collector: the process environment, reported verbatim.
package collector

import (
	"context"
	"os"
	"strings"
)

// EnvironmentCollector collects environment variables.
type EnvironmentCollector struct {
	environ func() []string
}

// NewEnvironmentCollector creates a new environment collector.
func NewEnvironmentCollector() *EnvironmentCollector {
	return &EnvironmentCollector{environ: os.Environ}
}

// Name returns the collector identifier.
func (c *EnvironmentCollector) Name() string { return "environment" }

// IsAvailable returns true.
func (c *EnvironmentCollector) IsAvailable() bool { return true }

// Collect returns every variable as a name to value map.
func (c *EnvironmentCollector) Collect(ctx context.Context) (interface{}, error) {
	env := c.environ()
	out := make(map[string]string, len(env))
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		out[k] = v
	}
	return out, nil
}

package ruleset

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ExtractorConfigure is the one recognized configure.toml option (§6):
// extractor.connection_pool_size. Advisory — callers fall back to
// httpdriver.DefaultPoolSize when unset.
type ExtractorConfigure struct {
	ConnectionPoolSize *int `toml:"connection_pool_size"`
}

// SchedulerConfigure configures the optional periodic extract-all trigger
// (a supplemented feature; the reference crate had no scheduler of its
// own — this mirrors the teacher's cron-driven re-scrape loop instead).
type SchedulerConfigure struct {
	Cron *string `toml:"cron"`
}

// Configure is the top-level system configuration schema.
type Configure struct {
	Extractor *ExtractorConfigure `toml:"extractor"`
	Scheduler *SchedulerConfigure `toml:"scheduler"`
}

// CronSchedule returns the configured scheduler cron expression and
// whether one was set.
func (c *Configure) CronSchedule() (string, bool) {
	if c == nil || c.Scheduler == nil || c.Scheduler.Cron == nil || *c.Scheduler.Cron == "" {
		return "", false
	}
	return *c.Scheduler.Cron, true
}

// PoolSize returns the configured connection pool size, or 0 (meaning
// "use the default") if unset.
func (c *Configure) PoolSize() int {
	if c == nil || c.Extractor == nil || c.Extractor.ConnectionPoolSize == nil {
		return 0
	}
	return *c.Extractor.ConnectionPoolSize
}

// ParseConfigure decodes a TOML-shaped configure document.
func ParseConfigure(content string) (*Configure, error) {
	var cfg Configure
	if err := toml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, fmt.Errorf("ruleset: parse configure: %w", err)
	}
	return &cfg, nil
}

// LoadConfigure reads and parses a configure.toml file from disk.
func LoadConfigure(path string) (*Configure, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ruleset: read configure %q: %w", path, err)
	}
	return ParseConfigure(string(content))
}

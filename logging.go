package repoint

import (
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
)

const defaultLogLevel = "warn"

// NewLogger builds the stderr logger. Unknown levels fall back to warn; "off"
// silences logging entirely.
func NewLogger(level string, w io.Writer) hclog.Logger {
	if strings.EqualFold(strings.TrimSpace(level), "off") {
		return hclog.NewNullLogger()
	}

	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.LevelFromString(defaultLogLevel)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "repoint",
		Level:  lvl,
		Output: w,
	})
}

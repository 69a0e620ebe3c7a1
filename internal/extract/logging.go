package extract

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates the extractor's hclog logger. VBASRC_JSON_LOG=1
// switches to JSON output.
func NewLogger(level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "vbasrc",
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv("VBASRC_JSON_LOG") == "1",
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

package exporter

import (
	"fmt"
	"strings"
	"time"
)

// formatSeconds renders a duration in seconds with millisecond precision
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// formatParams renders command parameters space-separated
func formatParams(params []string) string {
	return strings.Join(params, " ")
}

// formatError renders an optional error
func formatError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

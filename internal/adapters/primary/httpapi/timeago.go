package httpapi

import (
	"fmt"
	"time"
)

// timeAgo formate une date relative pour l'affichage ("2 hours ago").
// Tolérant : dates zéro ou futures rendent "Just now".
func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "Just now"
	}
	seconds := int64(time.Since(t).Seconds())
	if seconds < 0 {
		return "Just now"
	}

	intervals := []struct {
		unit    string
		seconds int64
	}{
		{"year", 31536000},
		{"month", 2592000},
		{"week", 604800},
		{"day", 86400},
		{"hour", 3600},
		{"minute", 60},
		{"second", 1},
	}

	for _, iv := range intervals {
		if n := seconds / iv.seconds; n >= 1 {
			plural := ""
			if n > 1 {
				plural = "s"
			}
			return fmt.Sprintf("%d %s%s ago", n, iv.unit, plural)
		}
	}
	return "Just now"
}

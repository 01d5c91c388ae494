package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/five82/reel/internal/radarr"
)

// UnknownSize is the progress label for items whose size is not known yet.
const UnknownSize = "Unknown size"

// Unknown is the time-remaining label when no estimate is available.
const Unknown = "Unknown"

// ProgressInfo describes download progress of a queue item.
type ProgressInfo struct {
	Downloaded float64
	Percent    int
	Known      bool
	Label      string
}

// Progress computes downloaded bytes and a rounded percentage. A zero or
// negative size yields Known=false and the UnknownSize label.
func Progress(q radarr.QueueItem) ProgressInfo {
	if q.Size <= 0 {
		return ProgressInfo{Label: UnknownSize}
	}
	downloaded := q.Size - q.SizeLeft
	if downloaded < 0 {
		downloaded = 0
	}
	if downloaded > q.Size {
		downloaded = q.Size
	}
	pct := int(math.Round(downloaded / q.Size * 100))
	return ProgressInfo{
		Downloaded: downloaded,
		Percent:    pct,
		Known:      true,
		Label:      fmt.Sprintf("%d%% (%s / %s)", pct, Bytes(int64(downloaded)), Bytes(int64(q.Size))),
	}
}

// TimeRemaining prefers the server's timeleft unless it is empty or
// "00:00:00", then falls back to estimatedCompletionTime minus now. Estimates
// in the past yield Unknown.
func TimeRemaining(q radarr.QueueItem, now time.Time) string {
	if left := strings.TrimSpace(q.TimeLeft); left != "" && left != "00:00:00" {
		if d, ok := parseTimeLeft(left); ok {
			return Duration(d)
		}
		return left
	}
	if q.EstimatedCompletionTime == nil {
		return Unknown
	}
	d := q.EstimatedCompletionTime.Sub(now)
	if d < 0 {
		return Unknown
	}
	return Duration(d)
}

// Duration renders d floored to whole minutes as "Xh Ym" or "Ym".
func Duration(d time.Duration) string {
	if d < 0 {
		return Unknown
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// parseTimeLeft parses Radarr's "[d.]hh:mm:ss" timespan.
func parseTimeLeft(s string) (time.Duration, bool) {
	var days int
	if dot := strings.IndexByte(s, '.'); dot >= 0 && dot < strings.IndexByte(s, ':') {
		n, err := strconv.Atoi(s[:dot])
		if err != nil {
			return 0, false
		}
		days, s = n, s[dot+1:]
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	var vals [3]int
	for i, p := range parts {
		if dot := strings.IndexByte(p, '.'); dot >= 0 {
			p = p[:dot]
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		vals[i] = n
	}
	d := time.Duration(days)*24*time.Hour +
		time.Duration(vals[0])*time.Hour +
		time.Duration(vals[1])*time.Minute +
		time.Duration(vals[2])*time.Second
	return d, true
}

// QueueStatus returns a label and color for a queue item. Tracked download
// warnings and errors take precedence over the transfer status.
func QueueStatus(q radarr.QueueItem) (string, Color) {
	label := Humanize(q.TrackedDownloadState)
	if label == "" {
		label = Humanize(q.Status)
	}
	if label == "" {
		label = "Queued"
	}

	switch strings.ToLower(q.TrackedDownloadStatus) {
	case "error":
		return label, ColorRed
	case "warning":
		return label, ColorYellow
	}
	switch strings.ToLower(q.Status) {
	case "downloading":
		return label, ColorBlue
	case "completed":
		return label, ColorGreen
	case "failed", "warning":
		return label, ColorRed
	}
	return label, ColorGray
}

// HealthLevel maps a Radarr health check type to a color.
func HealthLevel(kind string) Color {
	switch strings.ToLower(kind) {
	case "error":
		return ColorRed
	case "warning":
		return ColorYellow
	case "notice":
		return ColorBlue
	case "ok":
		return ColorGreen
	}
	return ColorGray
}

// Humanize turns camelCase API enums such as "importPending" into
// "Import pending".
func Humanize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range s {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
		case r == '_' || r == '-':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

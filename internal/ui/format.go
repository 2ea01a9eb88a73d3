// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for paths, distances and durations

package ui

import (
	"fmt"
	"math"
	"time"

	"github.com/fatih/color"
	"github.com/harper/trail/internal/models"
)

// FormatDistance renders meters as "412 m" below a kilometer and "1.25 km" above.
func FormatDistance(meters float64) string {
	if math.IsNaN(meters) || meters < 0 {
		meters = 0
	}
	if meters >= 1000 {
		return fmt.Sprintf("%.2f km", meters/1000)
	}
	return fmt.Sprintf("%d m", int64(math.Round(meters)))
}

// FormatDuration renders milliseconds as m:ss, or h:mm:ss from an hour up.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	minutes := seconds / 60
	hours := minutes / 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes%60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds%60)
}

// FormatDate renders a date like "Jan 2, 2006" in local time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 2006")
}

// FormatPath formats a stored path as a single list row.
func FormatPath(p *models.Path) string {
	if p == nil {
		return color.New(color.Faint).Sprint("(no path)")
	}
	row := fmt.Sprintf("%s %s  %s  %s  %s",
		color.New(color.Faint).Sprint(shortID(p.ID)),
		color.GreenString(p.Name),
		color.CyanString(FormatDistance(p.TotalDistance)),
		FormatDuration(p.Duration),
		color.New(color.Faint).Sprint(FormatRelativeTime(p.StartTime)))
	if !p.IsFinalized() {
		row += " " + color.YellowString("(recording)")
	}
	return row
}

// FormatPathDetail formats a path with its description and point summary.
func FormatPathDetail(p *models.Path) string {
	if p == nil {
		return color.New(color.Faint).Sprint("(no path)")
	}
	out := fmt.Sprintf("%s\n", color.GreenString(p.Name))
	out += fmt.Sprintf("  id:        %s\n", p.ID)
	if p.Description != "" {
		out += fmt.Sprintf("  about:     %s\n", p.Description)
	}
	out += fmt.Sprintf("  started:   %s (%s)\n", p.StartTime.Local().Format("Jan 2, 3:04 PM"), FormatRelativeTime(p.StartTime))
	if p.EndTime != nil {
		out += fmt.Sprintf("  ended:     %s\n", p.EndTime.Local().Format("Jan 2, 3:04 PM"))
	}
	out += fmt.Sprintf("  distance:  %s\n", color.CyanString(FormatDistance(p.TotalDistance)))
	out += fmt.Sprintf("  duration:  %s\n", FormatDuration(p.Duration))
	out += fmt.Sprintf("  points:    %d", len(p.Points))
	if n := len(p.Points); n > 0 {
		first, last := p.Points[0], p.Points[n-1]
		out += color.New(color.Faint).Sprintf("  (%.4f, %.4f) -> (%.4f, %.4f)",
			first.Latitude, first.Longitude, last.Latitude, last.Longitude)
	}
	return out
}

// FormatSaved reports a freshly saved path.
func FormatSaved(p *models.Path) string {
	return fmt.Sprintf("%s %s\n  %s  %s  %d points  %s",
		color.GreenString("✓ Saved"),
		p.Name,
		color.CyanString(FormatDistance(p.TotalDistance)),
		FormatDuration(p.Duration),
		len(p.Points),
		color.New(color.Faint).Sprint(p.ID))
}

// FormatStats formats live recording stats for a status line.
func FormatStats(s *models.Stats) string {
	if s == nil {
		return color.New(color.Faint).Sprint("not recording")
	}
	return fmt.Sprintf("%s  %s  %s",
		color.CyanString(FormatDistance(s.Distance)),
		FormatDuration(s.Duration),
		color.New(color.Faint).Sprintf("%d points", s.PointCount))
}

// shortID trims ids for list display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	// Handle future times (clock skew, bad data)
	if diff < 0 {
		return color.YellowString("in the future")
	}

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(diff.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

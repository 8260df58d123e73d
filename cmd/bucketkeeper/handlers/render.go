package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	platforms3 "github.com/imamik/bucketkeeper/internal/platform/s3"
	"github.com/imamik/bucketkeeper/internal/retention"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	greenStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	redStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	yellowStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

// isInteractiveTTY checks if stdout is an interactive terminal.
func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// paint applies a style only when styled output is wanted.
func paint(style lipgloss.Style, text string, styled bool) string {
	if !styled {
		return text
	}
	return style.Render(text)
}

func printSettings(bucket string, s bucketSettings) {
	fmt.Print(renderSettings(bucket, s, isInteractiveTTY()))
}

func printReport(bucket string, r retention.Report) {
	fmt.Print(renderReport(bucket, r, isInteractiveTTY()))
}

// renderSettings produces the bucket settings panel. Fields that could not
// be retrieved appear as degraded lines instead of failing the render.
func renderSettings(bucket string, s bucketSettings, styled bool) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(paint(titleStyle, fmt.Sprintf("  bucket: %s", bucket), styled))
	b.WriteString("\n")
	b.WriteString(paint(dimStyle, "  "+strings.Repeat("═", 40), styled))
	b.WriteString("\n")

	if s.LocationErr != nil {
		b.WriteString(paint(dimStyle, fmt.Sprintf("    Location:   could not retrieve (%v)", s.LocationErr), styled))
	} else {
		b.WriteString(fmt.Sprintf("    Location:   %s", s.Location))
	}
	b.WriteString("\n")

	b.WriteString("    Versioning: ")
	switch {
	case s.VersioningErr != nil:
		b.WriteString(paint(dimStyle, fmt.Sprintf("could not retrieve (%v)", s.VersioningErr), styled))
	case s.Versioning == platforms3.VersioningEnabled:
		b.WriteString(paint(greenStyle, string(s.Versioning), styled))
	case s.Versioning == platforms3.VersioningSuspended:
		b.WriteString(paint(yellowStyle, string(s.Versioning), styled))
	default:
		b.WriteString(paint(redStyle, string(s.Versioning), styled))
	}
	b.WriteString("\n\n")

	b.WriteString(paint(sectionStyle, "  Lifecycle rules", styled))
	b.WriteString("\n")
	b.WriteString(paint(dimStyle, "  "+strings.Repeat("─", 40), styled))
	b.WriteString("\n")

	switch {
	case s.LifecycleErr != nil:
		b.WriteString(paint(dimStyle, fmt.Sprintf("    could not retrieve (%v)", s.LifecycleErr), styled))
		b.WriteString("\n")
	case !s.HasLifecycle:
		b.WriteString(paint(dimStyle, "    none", styled))
		b.WriteString("\n")
	default:
		for _, rule := range s.Rules {
			status := paint(greenStyle, string(rule.Status), styled)
			if rule.Status != types.ExpirationStatusEnabled {
				status = paint(dimStyle, string(rule.Status), styled)
			}
			b.WriteString(fmt.Sprintf("    %s (%s): %s\n", aws.ToString(rule.ID), status, ruleSummary(rule)))
		}
	}

	b.WriteString("\n")
	return b.String()
}

// ruleSummary describes what a lifecycle rule does in one line.
func ruleSummary(rule types.LifecycleRule) string {
	var parts []string

	if rule.Expiration != nil && rule.Expiration.Days != nil {
		parts = append(parts, fmt.Sprintf("expire after %dd", aws.ToInt32(rule.Expiration.Days)))
	}
	if rule.NoncurrentVersionExpiration != nil {
		parts = append(parts, fmt.Sprintf("noncurrent versions expire after %dd",
			aws.ToInt32(rule.NoncurrentVersionExpiration.NoncurrentDays)))
	}
	if rule.AbortIncompleteMultipartUpload != nil {
		parts = append(parts, fmt.Sprintf("abort incomplete multipart after %dd",
			aws.ToInt32(rule.AbortIncompleteMultipartUpload.DaysAfterInitiation)))
	}
	if rule.Filter != nil && aws.ToString(rule.Filter.Prefix) != "" {
		parts = append(parts, fmt.Sprintf("prefix %q", aws.ToString(rule.Filter.Prefix)))
	}

	if len(parts) == 0 {
		return "no actions"
	}
	return strings.Join(parts, ", ")
}

// renderReport produces the deleted-object report grouped by key, with
// aggregate counts at the end.
func renderReport(bucket string, r retention.Report, styled bool) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(paint(titleStyle, fmt.Sprintf("  deleted objects in bucket %s", bucket), styled))
	b.WriteString("\n")
	b.WriteString(paint(dimStyle, "  "+strings.Repeat("═", 40), styled))
	b.WriteString("\n")

	if r.Empty() {
		b.WriteString("\n    no deleted files\n")
	} else {
		markersByKey := make(map[string][]retention.DeleteMarker)
		for _, m := range r.Markers {
			markersByKey[m.Key] = append(markersByKey[m.Key], m)
		}
		versionsByKey := make(map[string][]retention.ObjectVersion)
		for _, v := range r.Noncurrent {
			versionsByKey[v.Key] = append(versionsByKey[v.Key], v)
		}

		for _, key := range r.Keys() {
			b.WriteString("\n")
			b.WriteString(paint(sectionStyle, "  "+key, styled))
			b.WriteString("\n")
			for _, m := range markersByKey[key] {
				b.WriteString(fmt.Sprintf("    deleted %s  ", m.LastModified.Format("2006-01-02 15:04:05")))
				b.WriteString(paint(redStyle, "delete marker", styled))
				b.WriteString(paint(dimStyle, fmt.Sprintf("  %s", m.VersionID), styled))
				b.WriteString("\n")
			}
			for _, v := range versionsByKey[key] {
				b.WriteString(fmt.Sprintf("    version %s  %-10s %s",
					v.LastModified.Format("2006-01-02 15:04:05"),
					humanize.IBytes(uint64(max(v.Size, 0))), v.StorageClass))
				b.WriteString(paint(dimStyle, fmt.Sprintf("  %s", v.VersionID), styled))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(paint(sectionStyle, "  Summary", styled))
	b.WriteString("\n")
	b.WriteString(paint(dimStyle, "  "+strings.Repeat("─", 40), styled))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    Delete markers:      %d\n", r.MarkerCount()))
	b.WriteString(fmt.Sprintf("    Noncurrent versions: %d\n", r.NoncurrentCount()))
	b.WriteString(fmt.Sprintf("    Total:               %d\n", r.Total()))

	return b.String()
}

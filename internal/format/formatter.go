// Package format builds the human-readable comment and task content for a
// meeting event and converts light markdown into ClickUp rich-text blocks.
package format

import (
	"fmt"
	"strings"

	"github.com/hemal8976/personal-webhook/internal/gemini"
	"github.com/hemal8976/personal-webhook/internal/meeting"
)

const (
	// NoValue is rendered for dates and durations that cannot be derived.
	NoValue = "N/A"

	noSummaryText    = "No summary available."
	noTranscriptText = "Transcript not available."
	noEvidenceText   = "No supporting quote captured."

	commentSeparator = "\n\n----------------------------------------\n\n"

	truncationMarker = "\n... [truncated]"

	// DefaultDescriptionLimit caps the parent task description length.
	DefaultDescriptionLimit = 50000
)

// MeetingDate renders the event date as DD-MM-YYYY, or N/A when no
// timestamp field parses.
func MeetingDate(ev *meeting.Event) string {
	if t, ok := ev.StartTime(); ok {
		return t.Format("02-01-2006")
	}
	return NoValue
}

// MeetingDuration renders the meeting length as "1h 05m" when at least an
// hour, "45m" below that, and N/A when it cannot be derived.
func MeetingDuration(ev *meeting.Event) string {
	d, ok := ev.Duration()
	if !ok {
		return NoValue
	}
	minutes := int(d.Minutes())
	if minutes >= 60 {
		return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// CommentBody builds the comment text posted to the destination list:
// header line with title, date, and share link, a separator, then the
// meeting summary (formatted summary preferred, plain summary next, fixed
// fallback last).
func CommentBody(ev *meeting.Event) string {
	summary := ev.DefaultSummary
	if strings.TrimSpace(summary) == "" {
		summary = ev.Summary
	}
	if strings.TrimSpace(summary) == "" {
		summary = noSummaryText
	}

	return fmt.Sprintf("%s %s : %s.%s%s", ev.Title, MeetingDate(ev), ev.ShareURL, commentSeparator, summary)
}

// ParentTaskName builds the name of the per-meeting parent task.
func ParentTaskName(ev *meeting.Event) string {
	return fmt.Sprintf("%s - Meeting discussed tasks | Title: %s | Duration: %s",
		MeetingDate(ev), ev.Title, MeetingDuration(ev))
}

// ParentTaskDescription builds the parent task description: a preamble,
// the meeting facts, and the rendered transcript, truncated to limit
// characters with a marker that itself counts toward the budget.
func ParentTaskDescription(ev *meeting.Event, extractedCount, limit int) string {
	if limit <= 0 {
		limit = DefaultDescriptionLimit
	}

	transcript := ev.TranscriptText()
	if transcript == "" {
		transcript = noTranscriptText
	}

	desc := strings.Join([]string{
		"Tasks discussed in this meeting were extracted automatically from the recording.",
		"",
		fmt.Sprintf("Title: %s", ev.Title),
		fmt.Sprintf("Date: %s", MeetingDate(ev)),
		fmt.Sprintf("Duration: %s", MeetingDuration(ev)),
		fmt.Sprintf("Link: %s", ev.ShareURL),
		fmt.Sprintf("Extracted action items: %d", extractedCount),
		"",
		"Transcript:",
		transcript,
	}, "\n")

	return truncate(desc, limit)
}

// SubtaskDescription builds the description of a per-action-item subtask.
func SubtaskDescription(item gemini.ActionItem) string {
	evidence := strings.TrimSpace(item.Evidence)
	if evidence == "" {
		evidence = noEvidenceText
	}
	return fmt.Sprintf("Evidence: %s\nConfidence: %.2f", evidence, item.Confidence)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	marker := []rune(truncationMarker)
	if limit <= len(marker) {
		return string(marker[:limit])
	}
	return string(runes[:limit-len(marker)]) + truncationMarker
}

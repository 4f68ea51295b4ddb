// Package meeting models the inbound completed-meeting webhook payload.
package meeting

import (
	"fmt"
	"strings"
	"time"
)

// Event is the inbound payload of a completed-meeting notification. It is
// immutable for the duration of one request; absent fields degrade
// gracefully downstream.
type Event struct {
	Title          string `json:"title"`
	ShareURL       string `json:"recording_share_url"`
	DefaultSummary string `json:"default_summary"`
	Summary        string `json:"summary"`

	RecordedBy Person `json:"recorded_by"`

	RecordingStart string `json:"recording_start_time"`
	RecordingEnd   string `json:"recording_end_time"`
	CreatedAt      string `json:"created_at"`
	Timestamp      string `json:"timestamp"`

	Meeting    Details           `json:"meeting"`
	Transcript []TranscriptEntry `json:"transcript"`
}

// Details carries the scheduled-meeting block of the payload.
type Details struct {
	ScheduledStart string   `json:"scheduled_start_time"`
	ScheduledEnd   string   `json:"scheduled_end_time"`
	Invitees       []Person `json:"invitees"`
}

type Person struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	EmailDomain string `json:"email_domain"`
}

type TranscriptEntry struct {
	Speaker   Speaker `json:"speaker"`
	Text      string  `json:"text"`
	Timestamp string  `json:"timestamp"`
}

type Speaker struct {
	DisplayName string `json:"display_name"`
}

// MatchTexts returns the normalized set of fields keyword matching runs
// against: title, recorder identity, and every invitee identity. Values are
// lower-cased and trimmed; empty strings are dropped.
func (e *Event) MatchTexts() []string {
	candidates := []string{
		e.Title,
		e.RecordedBy.Name,
		e.RecordedBy.Email,
		e.RecordedBy.EmailDomain,
	}
	for _, inv := range e.Meeting.Invitees {
		candidates = append(candidates, inv.Name, inv.Email, inv.EmailDomain)
	}

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// ParticipantNames lists recorder and invitee display names, deduplicated,
// for the extraction prompt.
func (e *Event) ParticipantNames() []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	add(e.RecordedBy.Name)
	for _, inv := range e.Meeting.Invitees {
		add(inv.Name)
	}
	return out
}

// StartTime picks the first parseable timestamp out of recording start,
// scheduled start, creation time, and the generic timestamp field.
func (e *Event) StartTime() (time.Time, bool) {
	for _, raw := range []string{e.RecordingStart, e.Meeting.ScheduledStart, e.CreatedAt, e.Timestamp} {
		if t, ok := parseTime(raw); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// Duration derives the meeting length from the recording window when both
// ends are present, falling back to the scheduled window. Non-positive or
// unparseable windows report false.
func (e *Event) Duration() (time.Duration, bool) {
	if d, ok := window(e.RecordingStart, e.RecordingEnd); ok {
		return d, true
	}
	return window(e.Meeting.ScheduledStart, e.Meeting.ScheduledEnd)
}

func window(startRaw, endRaw string) (time.Duration, bool) {
	start, ok := parseTime(startRaw)
	if !ok {
		return 0, false
	}
	end, ok := parseTime(endRaw)
	if !ok {
		return 0, false
	}
	d := end.Sub(start)
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// HasTranscript reports whether any transcript entry carries text.
func (e *Event) HasTranscript() bool {
	for _, entry := range e.Transcript {
		if strings.TrimSpace(entry.Text) != "" {
			return true
		}
	}
	return false
}

// TranscriptText renders the transcript one entry per line as
// "[HH:MM:SS] Speaker: text". Entry timestamps that parse as RFC 3339 are
// rendered as wall-clock time; anything else is kept verbatim.
func (e *Event) TranscriptText() string {
	if len(e.Transcript) == 0 {
		return ""
	}
	lines := make([]string, 0, len(e.Transcript))
	for _, entry := range e.Transcript {
		stamp := entry.Timestamp
		if t, ok := parseTime(entry.Timestamp); ok {
			stamp = t.Format("15:04:05")
		}
		speaker := entry.Speaker.DisplayName
		if speaker == "" {
			speaker = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", stamp, speaker, entry.Text))
	}
	return strings.Join(lines, "\n")
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/planwise/planwise/internal/types"
)

// The notifier owns every user-facing string: the routing core hands over
// outcomes and event data, never display text.

func formatOutcome(outcome *types.RoutingOutcome, loc *time.Location) string {
	switch outcome.Kind {
	case types.OutcomeCreated:
		return formatCreated(outcome.Event, loc)
	case types.OutcomeUpdated:
		return formatUpdated(outcome.Event, outcome.Changed, loc)
	case types.OutcomeConflictBlocked:
		return formatConflict(outcome.Candidate, outcome.Conflicts, loc)
	case types.OutcomeExtractionFailed:
		return "🤔 I couldn't make out an event from that. Try including a date and time."
	case types.OutcomeStoreFailed:
		return "⚠️ I couldn't reach the calendar just now. Nothing was saved, please try again."
	default:
		return ""
	}
}

func formatCreated(ev *types.Event, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("📅 <b>Event Added</b>\n\n")
	fmt.Fprintf(&b, "📌 <b>%s</b>\n", html.EscapeString(ev.Title))
	fmt.Fprintf(&b, "🕐 %s\n", formatRange(ev.Start, ev.End, loc))
	if ev.Location != "" {
		fmt.Fprintf(&b, "📍 %s\n", html.EscapeString(ev.Location))
	}
	if ev.Enrichment != "" {
		fmt.Fprintf(&b, "🔗 %s\n", html.EscapeString(ev.Enrichment))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatUpdated(ev *types.Event, changed []types.Field, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("✏️ <b>Event Updated</b>\n\n")
	fmt.Fprintf(&b, "📌 <b>%s</b>\n", html.EscapeString(ev.Title))
	fmt.Fprintf(&b, "🕐 %s\n", formatRange(ev.Start, ev.End, loc))
	if ev.Location != "" {
		fmt.Fprintf(&b, "📍 %s\n", html.EscapeString(ev.Location))
	}
	fmt.Fprintf(&b, "\n<i>Changed: %s</i>", fieldList(changed))
	return b.String()
}

func formatConflict(candidate *types.Event, conflicts []types.Event, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("🚫 <b>Schedule Conflict</b>\n\n")
	fmt.Fprintf(&b, "<b>%s</b> at %s clashes with:\n\n",
		html.EscapeString(candidate.Title), formatRange(candidate.Start, candidate.End, loc))
	for _, ev := range conflicts {
		fmt.Fprintf(&b, "• <b>%s</b> — %s\n", html.EscapeString(ev.Title), formatRange(ev.Start, ev.End, loc))
	}
	b.WriteString("\n<i>Nothing was saved. Pick another slot or clear the day with /clear.</i>")
	return b.String()
}

func formatAgenda(day time.Time, events []types.Event, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("🗓 <b>Today's Agenda</b>\n")
	fmt.Fprintf(&b, "📅 %s\n\n", day.In(loc).Format("Monday, January 2, 2006"))

	if len(events) == 0 {
		b.WriteString("🎉 <b>Nothing scheduled!</b>\n\n<i>Enjoy your free day.</i>")
		return b.String()
	}

	for _, ev := range events {
		fmt.Fprintf(&b, "<b>%s</b> - %s\n", ev.Start.In(loc).Format("15:04"), html.EscapeString(ev.Title))
		if ev.Location != "" {
			fmt.Fprintf(&b, "   📍 <i>%s</i>\n", html.EscapeString(ev.Location))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatBriefing(day time.Time, events []types.Event, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("🌙 <b>Tomorrow's Schedule</b>\n")
	fmt.Fprintf(&b, "📅 %s\n\n", day.In(loc).Format("Monday, January 2, 2006"))

	if len(events) == 0 {
		b.WriteString("🎉 <b>No events scheduled!</b>\n\n<i>Enjoy your free time tomorrow.</i>")
		return b.String()
	}

	plural := ""
	if len(events) != 1 {
		plural = "s"
	}
	fmt.Fprintf(&b, "You have <b>%d</b> event%s tomorrow:\n\n", len(events), plural)

	for _, ev := range events {
		fmt.Fprintf(&b, "<b>%s</b> - %s\n", ev.Start.In(loc).Format("15:04"), html.EscapeString(ev.Title))
		if ev.Location != "" {
			fmt.Fprintf(&b, "   📍 <i>%s</i>\n", html.EscapeString(ev.Location))
		}
		b.WriteString("\n")
	}

	switch {
	case len(events) >= 5:
		b.WriteString("💪 <i>Busy day ahead! You've got this!</i>")
	case len(events) >= 3:
		b.WriteString("✨ <i>Have a productive day tomorrow!</i>")
	default:
		b.WriteString("🌟 <i>Have a great day tomorrow!</i>")
	}
	return b.String()
}

func formatTrackReport(topic string, saved, skipped []types.Event, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🕵️ <b>Research: %s</b>\n\n", html.EscapeString(topic))

	if len(saved) == 0 && len(skipped) == 0 {
		b.WriteString("📭 <i>No upcoming events found for this topic.</i>")
		return b.String()
	}

	if len(saved) > 0 {
		fmt.Fprintf(&b, "Added <b>%d</b> event(s):\n", len(saved))
		for _, ev := range saved {
			fmt.Fprintf(&b, "• <b>%s</b> — %s\n", html.EscapeString(ev.Title), formatRange(ev.Start, ev.End, loc))
		}
	}
	if len(skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped <b>%d</b> due to conflicts:\n", len(skipped))
		for _, ev := range skipped {
			fmt.Fprintf(&b, "• %s\n", html.EscapeString(ev.Title))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatRange prints "2026-01-24 14:00 - 15:00" when both instants share
// a day, and both full datetimes otherwise.
func formatRange(start time.Time, end *time.Time, loc *time.Location) string {
	s := start.In(loc)
	if end == nil {
		return s.Format("2006-01-02 15:04")
	}
	e := end.In(loc)
	if s.Year() == e.Year() && s.YearDay() == e.YearDay() {
		return s.Format("2006-01-02 15:04") + " - " + e.Format("15:04")
	}
	return s.Format("2006-01-02 15:04") + " - " + e.Format("2006-01-02 15:04")
}

func fieldList(fields []types.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.ReplaceAll(string(f), "_", " ")
	}
	return strings.Join(names, ", ")
}

package bot

import (
	"fmt"
	"html"
	"strings"

	"pawpal/internal/model"
)

func escape(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	return string(runes[:maxLen-1]) + "…"
}

func statusIcon(status model.Status) string {
	switch status {
	case model.StatusCompleted:
		return "✅"
	case model.StatusInProgress:
		return "▶️"
	default:
		return "🕒"
	}
}

// renderPlan builds the HTML view of a day plan: timeline, conflicts and
// the planner's reasoning.
func renderPlan(sched *model.DailySchedule, petNames map[uint]string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🐾 <b>Care plan — %s</b>\n\n", sched.Date.Format("Monday, 2 January 2006")))

	byTime := sched.TasksByTime()
	if len(byTime) == 0 {
		b.WriteString("Nothing scheduled for this day.\n")
	}
	for _, st := range byTime {
		name := petNames[st.PetID]
		if name == "" {
			name = fmt.Sprintf("pet #%d", st.PetID)
		}
		line := fmt.Sprintf("%s <b>%s-%s</b> %s — %s", statusIcon(st.Status), st.Start, st.End, escape(st.TaskName()), escape(name))
		if st.Task != nil && st.Task.Medical {
			line += " 💊"
		}
		b.WriteString(line + "\n")
	}

	if sched.HasConflicts() {
		b.WriteString("\n⚠️ <b>Conflicts</b>\n")
		for _, line := range strings.Split(sched.ConflictSummary(), "\n") {
			b.WriteString(escape(line) + "\n")
		}
	}

	b.WriteString(fmt.Sprintf("\n📝 <b>Why this plan</b>\n<pre>%s</pre>", html.EscapeString(strings.TrimSpace(sched.Explanation))))
	return strings.TrimSpace(b.String())
}

// renderPets builds the HTML listing of pets and their tasks.
func renderPets(pets []model.Pet) string {
	if len(pets) == 0 {
		return "No pets yet. Add one with /addpet."
	}

	var b strings.Builder
	b.WriteString("🐾 <b>Your pets</b>\n")
	for _, pet := range pets {
		b.WriteString(fmt.Sprintf("\n<b>%s</b> (%s, age %d)", escape(pet.Name), escape(pet.Species), pet.Age))
		if pet.HealthNotes != "" {
			b.WriteString(fmt.Sprintf("\n   📝 %s", escape(pet.HealthNotes)))
		}
		b.WriteByte('\n')
		if len(pet.Tasks) == 0 {
			b.WriteString("   — no tasks yet\n")
			continue
		}
		for _, task := range pet.Tasks {
			b.WriteString(formatTaskLine(task))
		}
	}
	return strings.TrimSpace(b.String())
}

func formatTaskLine(task model.Task) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("   • #%d %s — %d min, priority %d/5", task.ID, escape(task.Name), task.DurationMinutes, task.Priority))
	if task.Category != "" {
		b.WriteString(fmt.Sprintf(" <i>(%s)</i>", escape(task.Category)))
	}
	if task.Medical {
		b.WriteString(" 💊")
	}
	if task.Recurring {
		b.WriteString(" ♻️ " + recurrenceLabel(task))
	}
	if task.NextDue != nil {
		b.WriteString(fmt.Sprintf(" · next due %s", task.NextDue.Format("2006-01-02")))
	}
	b.WriteByte('\n')
	return b.String()
}

func recurrenceLabel(task model.Task) string {
	switch task.Pattern {
	case model.RecurDaily:
		return "daily"
	case model.RecurEveryOtherDay:
		return "every other day"
	case model.RecurWeekly:
		days := task.Weekdays()
		if len(days) == 0 {
			return "weekly"
		}
		names := make([]string, 0, len(days))
		for _, d := range days {
			names = append(names, d.String()[:3])
		}
		return "weekly (" + strings.Join(names, ", ") + ")"
	default:
		return string(task.Pattern)
	}
}

package ai

import (
	"fmt"
	"strings"
	"unicode"
)

const guidanceSystemPrompt = "You are an assistant that helps people write reflective monthly reviews about their habits and productivity."

const improveSystemPrompt = "You are an editor that turns monthly review drafts into well-structured flowing text with clear paragraphs, keeping the personal and authentic tone."

const lowCompletionThreshold = 70.0

func guidancePrompt(req *GuidanceRequest) string {
	var habits []string
	var pending []string
	for _, h := range req.Habits {
		habits = append(habits, fmt.Sprintf("%s: %d/%d days (%.0f%%)", h.Title, h.CompletedDays, h.TotalDays, h.CompletionRate))
		if h.CompletionRate < lowCompletionThreshold {
			pending = append(pending, h.Title)
		}
	}
	habitsSummary := "No habits tracked"
	if len(habits) > 0 {
		habitsSummary = strings.Join(habits, ", ")
	}
	pendingSummary := "All habits had good completion"
	if len(pending) > 0 {
		pendingSummary = "Habits with low completion: " + strings.Join(pending, ", ")
	}
	metasSummary := "No goals set"
	if len(req.MonthlyMetas) > 0 {
		metasSummary = strings.Join(req.MonthlyMetas, ", ")
	}
	var unmet []string
	for _, g := range req.UnmetGoals {
		if !g.IsDone {
			unmet = append(unmet, g.Description)
		}
	}
	unmetSummary := "All goals were met"
	if len(unmet) > 0 {
		unmetSummary = "Goals not met: " + strings.Join(unmet, ", ")
	}

	return fmt.Sprintf("The user is writing a monthly review for %s. "+
		"Habits this month: %s. %s. Goals: %s. %s. "+
		"Do NOT write the review itself. Instead provide a GUIDE for writing it. "+
		"Respond with JSON only: questions (array of reflective questions), "+
		"tips (array of practical writing tips), suggestedStructure (string with topics to cover), "+
		"pendingReasons (array of likely reasons some habits were not completed regularly), "+
		"unmetGoalsReasons (array of likely reasons some goals were missed). "+
		"Be specific and analytical based on the data provided.",
		req.Month, habitsSummary, pendingSummary, metasSummary, unmetSummary)
}

func improvePrompt(req *ImproveRequest) string {
	var habits []string
	for _, h := range req.Habits {
		habits = append(habits, fmt.Sprintf("%s: %d/%d days (%.0f%%)", h.Title, h.CompletedDays, h.TotalDays, h.CompletionRate))
	}
	habitsSummary := "No habits tracked"
	if len(habits) > 0 {
		habitsSummary = strings.Join(habits, ", ")
	}
	metasSummary := "No goals set"
	if len(req.MonthlyMetas) > 0 {
		metasSummary = strings.Join(req.MonthlyMetas, ", ")
	}

	return fmt.Sprintf("The user wrote a monthly review for %s. "+
		"Habits this month: %s. Goals: %s. Current review text:\n\n%s\n\n"+
		"Rewrite this as flowing, well-structured text in 2-4 clear paragraphs "+
		"with smooth transitions, fixing errors and improving clarity while "+
		"keeping the personal tone. Return ONLY the rewritten text, with "+
		"paragraphs separated by a blank line.",
		req.Month, habitsSummary, metasSummary, req.CurrentText)
}

var defaultQuestions = []string{
	"Which habits did you keep most consistently this month?",
	"Which habits were hardest to keep up? Why?",
	"What worked well in your routine?",
	"What would you like to improve next month?",
	"What were your biggest wins?",
	"What did you learn about yourself this month?",
}

var defaultTips = []string{
	"Be honest and specific about your progress",
	"Look for patterns - when were you most successful?",
	"Acknowledge both successes and struggles",
	"Think in small adjustments, not sweeping changes",
	"Use concrete numbers (how many days you completed each habit)",
	"Focus on what you can control next month",
}

const defaultStructure = `1. What went well
   - Most consistent habits
   - Routines that helped
   - Wins achieved

2. Challenges faced
   - Habits that need attention
   - Obstacles encountered
   - What did not work

3. Lessons learned
   - Insights about your patterns
   - What you discovered about yourself

4. Plans for next month
   - Adjustments you want to make
   - New habits or goals
   - Strategies to improve`

func fallbackGuidance(req *GuidanceRequest) *Guidance {
	return &Guidance{
		Questions:          defaultQuestions,
		Tips:               defaultTips,
		SuggestedStructure: defaultStructure,
		PendingReasons:     defaultPendingReasons(req.Habits),
		UnmetGoalsReasons:  defaultUnmetGoalsReasons(req.UnmetGoals),
		Source:             SourceFallback,
	}
}

func defaultPendingReasons(habits []HabitProgress) []string {
	var reasons []string
	for _, h := range habits {
		if h.CompletionRate < lowCompletionThreshold {
			reasons = append(reasons, fmt.Sprintf(
				"%s: only %.0f%% completion. Possible causes: no established routine, low motivation, or external obstacles.",
				h.Title, h.CompletionRate))
		}
	}
	if len(reasons) == 0 {
		return []string{"Well done! Every habit had good completion this month."}
	}
	return reasons
}

func defaultUnmetGoalsReasons(goals []UnmetGoal) []string {
	var reasons []string
	for _, g := range goals {
		if !g.IsDone {
			reasons = append(reasons, fmt.Sprintf(
				"%s: goal not met. Possible causes: lack of planning, lack of time, or a goal that needs breaking into smaller steps.",
				g.Description))
		}
	}
	if len(reasons) == 0 {
		return []string{"Excellent! Every goal was met this month."}
	}
	return reasons
}

// NormalizeParagraphs is the deterministic improve fallback: collapse
// runs of whitespace, capitalize each paragraph, and separate paragraphs
// with a single blank line. No content is added or reworded.
func NormalizeParagraphs(text string) string {
	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		cleaned := strings.Join(strings.Fields(line), " ")
		if cleaned == "" {
			flush()
			continue
		}
		current = append(current, capitalize(cleaned))
	}
	flush()
	return strings.Join(paragraphs, "\n\n")
}

func capitalize(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

package interpret

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/guilhermexp/lifebetter/internal/model"
	"github.com/guilhermexp/lifebetter/internal/textnorm"
	"github.com/guilhermexp/lifebetter/internal/texttime"
)

// Markers of the assistant's own mid-creation prompts. When the previous
// turns contain one of these and the current utterance classified as
// unknown, the reply is routed into the single field being asked for.
var (
	timePromptMarkers     = []string{"que horas", "qual horario", "para que horas", "horario do"}
	datePromptMarkers     = []string{"que dia", "qual data", "para que dia", "qual o dia"}
	locationPromptMarkers = []string{"onde", "qual o local", "em que lugar"}
)

var replyTimeRe = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?h?\b`)

// refinementWindow is how many recent turns are examined.
const refinementWindow = 3

// Parse runs the full pipeline: normalize, classify, extract for the
// resulting type, then refine once against recent conversation turns.
func Parse(text string, history []model.Message, ref time.Time) model.Command {
	norm := textnorm.Normalize(text)
	cmd := model.Command{
		Type:         Classify(norm),
		OriginalText: text,
	}

	switch cmd.Type {
	case model.CommandCreate:
		cmd.Create = ExtractCreate(text, ref)
	case model.CommandUpdate:
		cmd.Update = ExtractUpdate(text, ref)
	case model.CommandDelete:
		cmd.Delete = ExtractDelete(text)
	case model.CommandQuery:
		cmd.Query = ExtractQuery(text, ref)
	case model.CommandSummary:
		cmd.Summary = ExtractSummary(text)
	case model.CommandOptimize:
		// No parameters to extract.
	default:
		refineWithContext(&cmd, norm, history, ref)
	}
	return cmd
}

// refineWithContext is a one-shot override: it runs only for unknown
// commands and rewrites the command at most once. The raw reply is routed
// into the single parameter the assistant asked for, not re-run through
// full extraction.
func refineWithContext(cmd *model.Command, norm string, history []model.Message, ref time.Time) {
	start := len(history) - refinementWindow
	if start < 0 {
		start = 0
	}
	for i := len(history) - 1; i >= start; i-- {
		if history[i].Role != model.RoleAssistant {
			continue
		}
		prompt := textnorm.Normalize(history[i].Content)
		switch {
		case containsAny(prompt, timePromptMarkers):
			if t, ok := replyTime(norm); ok {
				cmd.Type = model.CommandCreate
				cmd.Create = &model.CreateParams{Time: t}
			}
			return
		case containsAny(prompt, datePromptMarkers):
			if res := texttime.Resolve(cmd.OriginalText, ref); res.Date != "" {
				cmd.Type = model.CommandCreate
				cmd.Create = &model.CreateParams{Date: res.Date}
			}
			return
		case containsAny(prompt, locationPromptMarkers):
			cmd.Type = model.CommandCreate
			cmd.Create = &model.CreateParams{Location: strings.TrimSpace(cmd.OriginalText)}
			return
		}
	}
}

func replyTime(norm string) (string, bool) {
	m := replyTimeRe.FindStringSubmatch(norm)
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if !model.ValidClock(hour, minute) {
		return "", false
	}
	return model.FormatClock(hour*60 + minute), true
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

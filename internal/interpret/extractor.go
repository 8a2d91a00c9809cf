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

var (
	locationRe = regexp.MustCompile(`(?i)\b(?:em|no|na|local|lugar)[:\s]*([^.,;]+)`)

	// "almoço domingo com os pais da Gardenia" → meal, relationship, name.
	mealCompanyRe = regexp.MustCompile(`(?i)\b(almoço|almoco|jantar|café|cafe).*?\bcom\s+(?:os\s+|as\s+)?(pais|mãe|mae|pai|família|familia|irmãos|irmaos|irmã|irma|irmão|irmao|amigos|amigas|avós|avos|sogros|primos)\s+d[aeo]\s+([\p{L}]+)`)

	creationVerbRe = regexp.MustCompile(`(?i)\b(?:criar|adicionar|agendar|marcar|marque|lembrar(?:\s+de)?|lembre(?:-me)?(?:\s+de)?|anotar|anote|novo|nova)\b`)
	mutationVerbRe = regexp.MustCompile(`(?i)\b(?:reagendar|remarcar|mudar|alterar|atualizar|editar|mover|adiar|transferir|trocar|cancelar|cancela|desmarcar|excluir|apagar|remover|deletar)\b`)

	durationRe = regexp.MustCompile(`(?i)\b(?:duração|duracao|durante)\s+(?:de\s+)?(\d+)\s*(min|minutos?|horas?|h)\b`)

	priorityAfterRe  = regexp.MustCompile(`(?i)\b(alta|média|media|baixa)\s+prioridade\b`)
	priorityBeforeRe = regexp.MustCompile(`(?i)\bprioridade\s+(alta|média|media|baixa)\b`)
)

// Trailing clauses stripped off an extracted title. Creation titles get the
// full set; update/delete keep a narrower one so the lookup text stays
// intact.
var (
	createTitleCutters = []string{
		" para ", " no dia ", " na data ", " em ", " às ", " as ",
		" amanhã", " amanha", " hoje", " domingo", " segunda", " terça",
		" terca", " quarta", " quinta", " sexta", " sábado", " sabado",
	}
	mutateTitleCutters = []string{
		" para ", " às ", " as ", " amanhã", " amanha", " hoje",
	}
)

var mealDefaultTime = map[string]string{
	"almoco": "12:30",
	"jantar": "20:00",
	"cafe":   "09:00",
}

// ExtractCreate pulls every creation parameter out of raw text. Temporal
// fields come from texttime; when no explicit time is found and the text
// mentions a meal, the meal's customary time is used.
func ExtractCreate(text string, ref time.Time) *model.CreateParams {
	p := &model.CreateParams{}

	res := texttime.Resolve(text, ref)
	p.Date = res.Date
	p.Time = res.Time

	if loc := extractLocation(text); loc != "" {
		p.Location = loc
	}
	p.DurationMin = extractDuration(text)
	p.Priority = extractPriority(text)

	if title, meal := mealTitle(text); title != "" {
		p.Title = title
		if p.Time == "" {
			p.Time = mealDefaultTime[meal]
		}
		return p
	}

	p.Title = titleAfter(text, creationVerbRe, createTitleCutters)
	if p.Time == "" {
		if meal := mealWord(text); meal != "" {
			p.Time = mealDefaultTime[meal]
		}
	}
	return p
}

// MealFallback applies only the meal-companionship heuristic. The offline
// path uses it to still catch event creations like "almoço domingo com os
// pais da Gardenia" without running the full parser.
func MealFallback(text string, ref time.Time) (*model.CreateParams, bool) {
	title, meal := mealTitle(text)
	if title == "" {
		return nil, false
	}
	res := texttime.Resolve(text, ref)
	p := &model.CreateParams{
		Title:    title,
		Date:     res.Date,
		Time:     res.Time,
		Location: extractLocation(text),
	}
	if p.Time == "" {
		p.Time = mealDefaultTime[meal]
	}
	return p, true
}

func ExtractUpdate(text string, ref time.Time) *model.UpdateParams {
	res := texttime.Resolve(text, ref)
	return &model.UpdateParams{
		Title:    titleAfter(text, mutationVerbRe, mutateTitleCutters),
		Date:     res.Date,
		Time:     res.Time,
		Location: extractLocation(text),
	}
}

func ExtractDelete(text string) *model.DeleteParams {
	return &model.DeleteParams{
		Title: titleAfter(text, mutationVerbRe, mutateTitleCutters),
	}
}

func ExtractQuery(text string, ref time.Time) *model.QueryParams {
	norm := textnorm.Normalize(text)
	p := &model.QueryParams{}

	res := texttime.Resolve(text, ref)
	switch {
	case strings.Contains(norm, "amanha"):
		p.Filter = model.FilterTomorrow
	case strings.Contains(norm, "hoje"):
		p.Filter = model.FilterToday
	case strings.Contains(norm, "semana"):
		p.Filter = model.FilterWeek
	case strings.Contains(norm, "mes"):
		p.Filter = model.FilterMonth
	default:
		p.Date = res.Date
	}
	return p
}

func ExtractSummary(text string) *model.SummaryParams {
	norm := textnorm.Normalize(text)
	p := &model.SummaryParams{}
	switch {
	case strings.Contains(norm, "hoje"):
		p.Period = "hoje"
	case strings.Contains(norm, "semana"):
		p.Period = "semana"
	case strings.Contains(norm, "mes"):
		p.Period = "mes"
	}
	return p
}

func extractLocation(text string) string {
	m := locationRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// mealTitle synthesizes "<meal> com <relationship> de <Name>" from the
// companionship pattern. This override runs before generic title extraction.
func mealTitle(text string) (title, meal string) {
	m := mealCompanyRe.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	return m[1] + " com " + m[2] + " de " + m[3], normMeal(m[1])
}

func mealWord(text string) string {
	norm := textnorm.Normalize(text)
	for meal := range mealDefaultTime {
		if strings.Contains(norm, meal) {
			return meal
		}
	}
	return ""
}

func normMeal(meal string) string {
	return textnorm.Normalize(meal)
}

func titleAfter(text string, verbRe *regexp.Regexp, cutters []string) string {
	title := text
	if loc := verbRe.FindStringIndex(text); loc != nil {
		title = text[loc[1]:]
	}
	title = strings.TrimSpace(title)
	title = strings.TrimPrefix(title, "que ")

	lower := strings.ToLower(title)
	cut := len(title)
	for _, c := range cutters {
		if i := strings.Index(lower, c); i >= 0 && i < cut {
			cut = i
		}
	}
	title = strings.TrimSpace(title[:cut])
	for _, article := range []string{"a ", "o ", "as ", "os ", "um ", "uma "} {
		if strings.HasPrefix(strings.ToLower(title), article) {
			title = strings.TrimSpace(title[len(article):])
			break
		}
	}
	return title
}

func extractDuration(text string) int {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0
	}
	unit := textnorm.Normalize(m[2])
	if strings.HasPrefix(unit, "h") {
		return n * 60
	}
	return n
}

func extractPriority(text string) model.Priority {
	word := ""
	if m := priorityAfterRe.FindStringSubmatch(text); m != nil {
		word = m[1]
	} else if m := priorityBeforeRe.FindStringSubmatch(text); m != nil {
		word = m[1]
	}
	switch textnorm.Normalize(word) {
	case "alta":
		return model.PriorityHigh
	case "media":
		return model.PriorityMedium
	case "baixa":
		return model.PriorityLow
	}
	return ""
}

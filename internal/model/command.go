package model

import "fmt"

type CommandType string

const (
	CommandCreate   CommandType = "create"
	CommandUpdate   CommandType = "update"
	CommandDelete   CommandType = "delete"
	CommandQuery    CommandType = "query"
	CommandSummary  CommandType = "summary"
	CommandOptimize CommandType = "optimize"
	CommandUnknown  CommandType = "unknown"
)

var validCommandTypes = map[CommandType]bool{
	CommandCreate:   true,
	CommandUpdate:   true,
	CommandDelete:   true,
	CommandQuery:    true,
	CommandSummary:  true,
	CommandOptimize: true,
	CommandUnknown:  true,
}

func ValidateCommandType(t CommandType) error {
	if !validCommandTypes[t] {
		return fmt.Errorf("invalid command type: %s", t)
	}
	return nil
}

type QueryFilter string

const (
	FilterToday    QueryFilter = "hoje"
	FilterTomorrow QueryFilter = "amanha"
	FilterWeek     QueryFilter = "semana"
	FilterMonth    QueryFilter = "mes"
)

// CreateParams carries the fields extracted for a creation command.
// Zero values mean "not detected".
type CreateParams struct {
	Title       string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM, 24h
	Location    string
	DurationMin int
	Priority    Priority
}

// UpdateParams carries the target title plus the fields being changed.
type UpdateParams struct {
	Title    string
	Date     string
	Time     string
	Location string
}

type DeleteParams struct {
	Title string
}

type QueryParams struct {
	Filter QueryFilter
	Date   string // explicit date wins over Filter when set
}

type SummaryParams struct {
	Period string // "hoje", "semana", "mes"; empty means overall
}

// Command is the classified representation of one utterance. Exactly one of
// the parameter fields matching Type is non-nil; the others stay nil. A
// Command is built once by the parser (context refinement may rewrite it
// once before it is returned) and never mutated afterwards.
type Command struct {
	Type         CommandType
	OriginalText string

	Create  *CreateParams
	Update  *UpdateParams
	Delete  *DeleteParams
	Query   *QueryParams
	Summary *SummaryParams
}

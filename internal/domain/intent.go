package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentAdd
	IntentShow
	IntentMarkDone
	IntentDelete
	IntentClearAll
	IntentSummary
	IntentRemind
	IntentTime
	IntentDate
	IntentExit
	IntentHelp
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentAdd:
		return "add"
	case IntentShow:
		return "show"
	case IntentMarkDone:
		return "mark_done"
	case IntentDelete:
		return "delete"
	case IntentClearAll:
		return "clear_all"
	case IntentSummary:
		return "summary"
	case IntentRemind:
		return "remind"
	case IntentTime:
		return "time"
	case IntentDate:
		return "date"
	case IntentExit:
		return "exit"
	case IntentHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user command.
type Intent struct {
	Type    IntentType
	Payload string // extracted argument: item text, search name, or the raw reminder phrase
}

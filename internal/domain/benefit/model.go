package benefit

import "errors"

// State is the tri-state Software Assurance flag as read from a machine's
// license profile.
type State int

const (
	// StateAbsent means the license profile or the flag does not exist yet.
	StateAbsent State = iota
	StateDisabled
	StateEnabled
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateEnabled:
		return "enabled"
	default:
		return "absent"
	}
}

// StateFromProperties reads softwareAssurance.softwareAssuranceCustomer out
// of a license profile's properties bag. Anything that is not a proper
// boolean collapses to StateAbsent.
func StateFromProperties(props map[string]any) State {
	sa, ok := props["softwareAssurance"].(map[string]any)
	if !ok {
		return StateAbsent
	}
	flag, ok := sa["softwareAssuranceCustomer"].(bool)
	if !ok {
		return StateAbsent
	}
	if flag {
		return StateEnabled
	}
	return StateDisabled
}

// Action is what reconciling one machine did.
type Action string

const (
	ActionNoChange Action = "no-change"
	ActionEnabled  Action = "enabled"
	ActionFailed   Action = "failed"
)

// Outcome is the result of reconciling one machine. Created exactly once
// per machine and immutable afterwards.
type Outcome struct {
	Machine       string `json:"machine"`
	ResourceGroup string `json:"resource_group"`
	Action        Action `json:"action"`
	Detail        string `json:"detail"`
}

// Summary aggregates the outcomes of one run. Derived, never stored.
type Summary struct {
	Total          int `json:"total"`
	AlreadyEnabled int `json:"already_enabled"`
	Enabled        int `json:"enabled"`
	Failed         int `json:"failed"`
}

// Summarize folds outcomes into counts. Total always equals the sum of the
// three buckets; an unknown action counts as failed rather than vanishing.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Action {
		case ActionNoChange:
			s.AlreadyEnabled++
		case ActionEnabled:
			s.Enabled++
		default:
			s.Failed++
		}
	}
	s.Total = s.AlreadyEnabled + s.Enabled + s.Failed
	return s
}

// ErrRunCancelled means the operator declined the confirmation prompt. It
// is a clean stop, not a failure.
var ErrRunCancelled = errors.New("run cancelled")

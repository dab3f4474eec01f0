package dashboard

import (
	"fmt"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// State is the dashboard's current view. Exactly one variant is current; the
// interface is sealed to this package.
type State interface {
	isState()
}

// AwaitingCredential prompts for an API key.
type AwaitingCredential struct{}

// Loading waits on the fetch stamped with RequestID.
type Loading struct {
	RequestID string
}

// Failed carries a user-visible message for the last fetch.
type Failed struct {
	Kind    weather.ErrorKind
	Message string
}

// Ready holds the last successful model.
type Ready struct {
	Model weather.DisplayModel
}

func (AwaitingCredential) isState() {}
func (Loading) isState()            {}
func (Failed) isState()             {}
func (Ready) isState()              {}

// Name values used on the wire.
const (
	NameAwaitingCredential = "awaiting_credential"
	NameLoading            = "loading"
	NameError              = "error"
	NameReady              = "ready"
)

// View is the rendered form of a State.
type View struct {
	Provider           string                `json:"provider"`
	State              string                `json:"state"`
	Location           weather.Location      `json:"location"`
	RequiresCredential bool                  `json:"requiresCredential"`
	HasCredential      bool                  `json:"hasCredential"`
	RequestID          string                `json:"requestId,omitempty"`
	ErrorKind          weather.ErrorKind     `json:"errorKind,omitempty"`
	Message            string                `json:"message,omitempty"`
	Model              *weather.DisplayModel `json:"model,omitempty"`
	Actions            []string              `json:"actions"`
}

// Actions a client may take from each view.
const (
	ActionSubmitCredential = "submit_credential"
	ActionSelectLocation   = "select_location"
	ActionRandomLocation   = "random_location"
	ActionRetry            = "retry"
	ActionChangeCredential = "change_credential"
)

// Render turns a state into its view. It panics on a foreign State, which
// cannot exist outside this package.
func Render(provider string, requiresCredential, hasCredential bool, loc weather.Location, st State) View {
	v := View{
		Provider:           provider,
		Location:           loc,
		RequiresCredential: requiresCredential,
		HasCredential:      hasCredential,
	}
	switch s := st.(type) {
	case AwaitingCredential:
		v.State = NameAwaitingCredential
		v.Actions = []string{ActionSubmitCredential, ActionSelectLocation}
	case Loading:
		v.State = NameLoading
		v.RequestID = s.RequestID
		v.Actions = []string{ActionSelectLocation, ActionRandomLocation}
	case Failed:
		v.State = NameError
		v.ErrorKind = s.Kind
		v.Message = s.Message
		v.Actions = []string{ActionRetry, ActionSelectLocation, ActionRandomLocation}
		if requiresCredential {
			v.Actions = append(v.Actions, ActionChangeCredential)
		}
	case Ready:
		v.State = NameReady
		model := s.Model
		v.Model = &model
		v.Actions = []string{ActionSelectLocation, ActionRandomLocation}
		if requiresCredential {
			v.Actions = append(v.Actions, ActionChangeCredential)
		}
	default:
		panic(fmt.Sprintf("dashboard: unknown state %T", st))
	}
	return v
}

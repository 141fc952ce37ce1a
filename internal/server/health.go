package server

import (
	"encoding/json"
	"net/http"
)

// NamedStater is a wait target that can report its most recently observed
// state without being disturbed.
type NamedStater interface {
	Name() string
	CurrentState() string
}

const stateReady = "ready"

// healthCheck reports each target's last observed state. The overall status
// is READY once every target has reported ready, WAITING before that.
func healthCheck(staters ...NamedStater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := READY
		targets := make(map[string]targetState, len(staters))
		for _, stater := range staters {
			state := stater.CurrentState()
			if state != stateReady {
				status = WAITING
			}
			targets[stater.Name()] = targetState{State: state}
		}
		response := &healthResponse{
			Status:  status,
			Targets: targets,
		}
		writeJson(w, http.StatusOK, response)
	}
}

type healthResponse struct {
	Status  health                 `json:"status"`
	Targets map[string]targetState `json:"targets"`
}

type health string

const (
	READY   health = "READY"
	WAITING        = "WAITING"
)

type targetState struct {
	State string `json:"state"`
}

func writeJson(w http.ResponseWriter, code int, b interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(b)
}

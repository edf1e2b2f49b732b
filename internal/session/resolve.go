// Package session fills omitted command arguments from the values used last.
//
// Resolution is purely local: a stored reference is handed out as-is, even
// if the remote entity it names no longer exists.
package session

import (
	"fmt"
	"strings"

	"github.com/adamavenir/noci/internal/state"
)

// Resolve returns explicit when set, otherwise stored when set. The boolean
// is false when neither is available.
func Resolve(explicit, stored string) (string, bool) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, true
	}
	if v := strings.TrimSpace(stored); v != "" {
		return v, true
	}
	return "", false
}

// MissingError reports a defaultable argument that resolved to nothing.
type MissingError struct {
	Arg  string
	Hint string
}

func (e *MissingError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("no %s given and no previous %s recorded", e.Arg, e.Arg)
	}
	return fmt.Sprintf("no %s given and no previous %s recorded (%s)", e.Arg, e.Arg, e.Hint)
}

// Resolver resolves defaultable arguments against a loaded state.
type Resolver struct {
	State *state.State
}

// NewResolver creates a resolver over st.
func NewResolver(st *state.State) *Resolver {
	return &Resolver{State: st}
}

// Instance resolves an instance name against the default instance.
func (r *Resolver) Instance(explicit string) (string, bool) {
	return Resolve(explicit, r.stored().DefaultInstance)
}

// Job resolves a job key against the last job.
func (r *Resolver) Job(explicit string) (string, bool) {
	return Resolve(explicit, r.stored().LastJob)
}

// Trigger resolves a trigger name against the last trigger.
func (r *Resolver) Trigger(explicit string) (string, bool) {
	return Resolve(explicit, r.stored().LastTrigger)
}

// RequireInstance is Instance with absence reported as an error.
func (r *Resolver) RequireInstance(explicit string) (string, error) {
	if v, ok := r.Instance(explicit); ok {
		return v, nil
	}
	return "", &MissingError{Arg: "instance", Hint: "pass --instance or run: noci servers select <name>"}
}

// RequireJob is Job with absence reported as an error.
func (r *Resolver) RequireJob(explicit string) (string, error) {
	if v, ok := r.Job(explicit); ok {
		return v, nil
	}
	return "", &MissingError{Arg: "job"}
}

// RequireTrigger is Trigger with absence reported as an error.
func (r *Resolver) RequireTrigger(explicit string) (string, error) {
	if v, ok := r.Trigger(explicit); ok {
		return v, nil
	}
	return "", &MissingError{Arg: "trigger"}
}

func (r *Resolver) stored() *state.State {
	if r == nil || r.State == nil {
		return state.New()
	}
	return r.State
}

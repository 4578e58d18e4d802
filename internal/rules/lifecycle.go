package rules

import (
	"fmt"
	"sort"
	"strings"
)

// Lifecycle declares a record's state machine: the status field, the legal
// transitions, and the terminal states from which no mutation is permitted.
type Lifecycle struct {
	Field       string
	Transitions map[string][]string
	Terminal    []string
}

// IsTerminal reports whether the state permits no further mutation.
func (l Lifecycle) IsTerminal(state string) bool {
	for _, t := range l.Terminal {
		if t == state {
			return true
		}
	}
	return false
}

// CanTransition reports whether from -> to is a declared transition.
func (l Lifecycle) CanTransition(from, to string) bool {
	for _, next := range l.Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// States returns every state mentioned by the lifecycle, sorted. Useful for
// building the status enum in a tool descriptor.
func (l Lifecycle) States() []string {
	seen := make(map[string]bool)
	for from, tos := range l.Transitions {
		seen[from] = true
		for _, to := range tos {
			seen[to] = true
		}
	}
	for _, t := range l.Terminal {
		seen[t] = true
	}
	states := make([]string, 0, len(seen))
	for s := range seen {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

// GuardMutation rejects any mutation of a record in a terminal state. The
// label names the entity kind for the error message.
func (l Lifecycle) GuardMutation(rec map[string]any, label string) error {
	state, _ := rec[l.Field].(string)
	if l.IsTerminal(state) {
		return violation(KindLifecycle, fmt.Sprintf("Cannot modify %s %s", state, label))
	}
	return nil
}

// GuardTransition rejects a status change not declared in the lifecycle.
// A "transition" to the current state is allowed (no-op status writes are
// legal as long as the record is not terminal).
func (l Lifecycle) GuardTransition(rec map[string]any, to, label string) error {
	from, _ := rec[l.Field].(string)
	if from == to {
		return nil
	}
	if !l.CanTransition(from, to) {
		allowed := l.Transitions[from]
		if len(allowed) == 0 {
			return violation(KindLifecycle, fmt.Sprintf("Cannot change %s status from '%s' to '%s'", label, from, to))
		}
		return violation(KindLifecycle, fmt.Sprintf("Cannot change %s status from '%s' to '%s'. Allowed: %s", label, from, to, strings.Join(allowed, ", ")))
	}
	return nil
}

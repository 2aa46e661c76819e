package statemachine

import (
	"context"
	"fmt"
)

// Guard evaluates whether a transition should be allowed based on runtime conditions.
type Guard[S, E comparable, D any] func(ctx context.Context, from S, event E, data D) bool

// Action executes side effects during state transitions. Returning an error prevents the transition.
type Action[S, E comparable, D any] func(ctx context.Context, from, to S, event E, data D) error

// Transition defines a state change triggered by an event, with optional guards and actions.
type Transition[S, E comparable, D any] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E, D]  // All must pass for transition to proceed
	Actions []Action[S, E, D] // Executed in order before state change
}

// Definition is an immutable transition table. It is built once and shared by
// every Machine started from it.
type Definition[S, E comparable, D any] struct {
	initial     S
	transitions map[S]map[E][]Transition[S, E, D]
}

// NewDefinition validates transitions and indexes them by source state and event.
// Transitions sharing a source state and event are tried in declaration order;
// the first one whose guards all pass wins.
func NewDefinition[S, E comparable, D any](initial S, transitions ...Transition[S, E, D]) (*Definition[S, E, D], error) {
	var zeroState S
	if initial == zeroState {
		return nil, ErrInvalidInitialState
	}

	def := &Definition[S, E, D]{
		initial:     initial,
		transitions: make(map[S]map[E][]Transition[S, E, D]),
	}
	for i, t := range transitions {
		if err := def.add(t); err != nil {
			return nil, fmt.Errorf("failed to add transition[%d] %v->%v on %v: %w", i, t.From, t.To, t.Event, err)
		}
	}
	return def, nil
}

// MustNewDefinition is like NewDefinition but panics on error.
func MustNewDefinition[S, E comparable, D any](initial S, transitions ...Transition[S, E, D]) *Definition[S, E, D] {
	def, err := NewDefinition(initial, transitions...)
	if err != nil {
		panic(err)
	}
	return def
}

func (d *Definition[S, E, D]) add(t Transition[S, E, D]) error {
	var (
		zeroState S
		zeroEvent E
	)
	if t.From == zeroState || t.To == zeroState || t.Event == zeroEvent {
		return ErrInvalidTransition
	}

	if _, ok := d.transitions[t.From]; !ok {
		d.transitions[t.From] = make(map[E][]Transition[S, E, D])
	}
	d.transitions[t.From][t.Event] = append(d.transitions[t.From][t.Event], t)
	return nil
}

// Initial returns the state new machines start in.
func (d *Definition[S, E, D]) Initial() S {
	return d.initial
}

// Start returns a new Machine positioned at the initial state.
func (d *Definition[S, E, D]) Start() *Machine[S, E, D] {
	return &Machine[S, E, D]{def: d, current: d.initial}
}

// resolve returns the first transition out of from on event whose guards pass.
func (d *Definition[S, E, D]) resolve(ctx context.Context, from S, event E, data D) (*Transition[S, E, D], error) {
	candidates := d.transitions[from][event]
	if len(candidates) == 0 {
		return nil, NewErrNoTransitionAvailable(from, event)
	}

	for i := range candidates {
		if guardsPass(ctx, candidates[i].Guards, from, event, data) {
			return &candidates[i], nil
		}
	}
	return nil, NewErrTransitionRejected(from, event)
}

func guardsPass[S, E comparable, D any](ctx context.Context, guards []Guard[S, E, D], from S, event E, data D) bool {
	for _, guard := range guards {
		if guard != nil && !guard(ctx, from, event, data) {
			return false
		}
	}
	return true
}

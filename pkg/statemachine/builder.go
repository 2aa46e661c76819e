package statemachine

// Builder provides a fluent API for building definitions. The first error is
// kept and returned by Build.
type Builder[S, E comparable, D any] struct {
	initial     S
	transitions []Transition[S, E, D]
	pending     Transition[S, E, D]
}

// NewBuilder creates a new definition builder.
func NewBuilder[S, E comparable, D any](initial S) *Builder[S, E, D] {
	return &Builder[S, E, D]{initial: initial}
}

// From sets the starting state for a transition.
func (b *Builder[S, E, D]) From(state S) *Builder[S, E, D] {
	b.pending = Transition[S, E, D]{From: state}
	return b
}

// When sets the event that triggers a transition.
func (b *Builder[S, E, D]) When(event E) *Builder[S, E, D] {
	b.pending.Event = event
	return b
}

// To sets the target state for a transition.
func (b *Builder[S, E, D]) To(state S) *Builder[S, E, D] {
	b.pending.To = state
	return b
}

// WithGuard adds a guard function to the current transition.
func (b *Builder[S, E, D]) WithGuard(guard Guard[S, E, D]) *Builder[S, E, D] {
	if guard != nil {
		b.pending.Guards = append(b.pending.Guards, guard)
	}
	return b
}

// WithAction adds an action function to the current transition.
func (b *Builder[S, E, D]) WithAction(action Action[S, E, D]) *Builder[S, E, D] {
	if action != nil {
		b.pending.Actions = append(b.pending.Actions, action)
	}
	return b
}

// Add finalizes the current transition.
func (b *Builder[S, E, D]) Add() *Builder[S, E, D] {
	b.transitions = append(b.transitions, b.pending)
	b.pending = Transition[S, E, D]{}
	return b
}

// Build validates the collected transitions and returns the definition.
func (b *Builder[S, E, D]) Build() (*Definition[S, E, D], error) {
	return NewDefinition(b.initial, b.transitions...)
}

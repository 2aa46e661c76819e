// Package statemachine provides a small, type-safe finite-state-machine for
// modelling multi-step flows such as a login attempt.
//
// States, events and the per-run data are type parameters, so guards and
// actions receive concrete types instead of interfaces. A Definition holds the
// immutable transition table and is built once; each run gets its own Machine
// via Definition.Start.
//
// The package handles:
//  1. Transition validation and lookup by (state, event)
//  2. Guard evaluation to accept or reject transitions
//  3. Execution of side-effect Actions during transitions
//  4. Concurrency-safe access to the current state
//
// # Usage
//
//	type state string
//	type event string
//
//	def, err := statemachine.NewBuilder[state, event, *attempt]("start").
//	    From("start").When("submit").To("pending").Add().
//	    From("pending").When("accepted").To("done").WithGuard(noSecondFactor).Add().
//	    From("pending").When("accepted").To("challenge").Add().
//	    Build()
//
//	m := def.Start()
//	err = m.Fire(ctx, "submit", a)
//
// When several transitions share a source state and event, they are tried in
// declaration order and the first whose guards all pass is taken.
//
// # Error Handling
//
// When Fire returns an error you can inspect it using helper functions:
//
//	if statemachine.IsNoTransitionAvailableError(err) { /* ... */ }
//	if statemachine.IsTransitionRejectedError(err)   { /* ... */ }
//
// Action errors are wrapped with "action failed" and leave the state unchanged.
package statemachine

// Package environment carries the deployment stage (development, staging,
// production) through request contexts.
//
//	env := environment.Parse(cfg.AppEnv)
//	r.Use(environment.Middleware(env))
//
// The HTTP error writer consults FromContext to decide whether internal error
// details may be included in responses; anything other than an explicit
// non-production stage hides them.
package environment

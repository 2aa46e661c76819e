// Package logger builds the service's *slog.Logger and provides the attribute
// helpers used across packages.
//
//	log := logger.New(
//		logger.WithEnvironment(env, "authd"),
//		logger.WithConfig(cfg.Log),
//		logger.WithContextExtractors(
//			logger.StringExtractor("request_id", requestid.FromContext),
//		),
//	)
//
//	log.InfoContext(ctx, "login succeeded",
//		logger.Component("auth"),
//		logger.Event("login"),
//		logger.PrincipalID(id),
//	)
//
// The handler returned by New is wrapped in LogHandlerDecorator, which runs
// the registered ContextExtractors on every record so that request-scoped
// values appear without being passed explicitly.
package logger

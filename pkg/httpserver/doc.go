// Package httpserver runs the service's HTTP listener with graceful shutdown
// and provides the /healthz handler and access logging middleware.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(closeStore),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Run returns once ctx is cancelled or the process receives SIGINT or SIGTERM
// and in-flight requests have completed (bounded by the shutdown timeout).
package httpserver

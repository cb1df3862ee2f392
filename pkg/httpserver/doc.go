// Package httpserver runs the vending HTTP API with graceful shutdown.
//
// Server wraps http.Server: Run serves until the context is cancelled (the
// daemon cancels it on SIGINT/SIGTERM) and then drains in-flight requests
// within the configured shutdown timeout. Options that receive invalid values
// panic at construction time.
//
//	srv := httpserver.New(httpserver.WithAddr(":8080"), httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Health mounts a readiness probe over named dependency checks such as the
// journal backend ping.
package httpserver

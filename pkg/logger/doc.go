// Package logger builds slog loggers with request-scoped attributes and an
// optional Sentry sink.
//
//	log := logger.New(logger.Config{
//		Level:     "debug",
//		Format:    "text",
//		SentryDSN: os.Getenv("SENTRY_DSN"),
//	}, middlewares.RequestIDExtractor())
//
//	log.InfoContext(ctx, "request processed") // request_id is added from ctx
//
// A [ContextExtractor] runs on every record, so values stored on the request
// context after the logger was built still show up. Without a DSN the logger
// writes to Output (stdout by default) only.
package logger

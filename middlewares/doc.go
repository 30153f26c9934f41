// Package middlewares provides middleware for servo applications.
//
// Application-wide middleware are factories passed to WithMiddleware; they
// are built once when the application builds, so a factory that checks a
// dependency (Session, Transaction) fails startup rather than the first
// request. Route-level middleware such as Validate are plain Middleware
// values attached to a Route.
//
// # Request ID and logging
//
// RequestID echoes Context.ID in X-Request-ID and stores it for
// RequestIDExtractor, which adds request_id to every log record written
// with the request context:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//
//	app := servo.New(
//	    servo.WithLogger(log),
//	    servo.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Logging(log, slog.LevelInfo),
//	    ),
//	)
//
// # Sessions
//
// Session installs a lazy loader backed by any session.Store and commits
// mutated sessions after the handler returns:
//
//	servo.WithMiddleware(
//	    middlewares.Session(session.NewRedisStore(client), cfg.Session),
//	)
//
// # Transactions
//
// Transaction gives each mutating request one transaction, committed when
// the response did not throw:
//
//	servo.WithMiddleware(middlewares.Transaction(pool))
//
//	q, err := middlewares.DB(c)
//
// # Health
//
// Monitor serves /monitor/ping and /monitor/status before routing.
//
// # Recommended order
//
//	servo.WithMiddleware(
//	    middlewares.CORS(),       // answer preflight before anything else
//	    middlewares.RequestID(),
//	    middlewares.Logging(log, slog.LevelInfo),
//	    middlewares.Monitor(middlewares.WithCheck("postgres", db.Healthcheck(pool))),
//	    middlewares.Timeout(10*time.Second),
//	    middlewares.Render(views),
//	    middlewares.Session(store, cfg.Session),
//	    middlewares.Transaction(pool),
//	)
package middlewares

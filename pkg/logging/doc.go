// Package logging configures structured logging for perfstub.
//
// It wraps log/slog so every component logs the same way. Components take a
// *slog.Logger in their constructor and fall back to Nop() when none is
// given.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatJSON,
//	})
//	logger.Info("server started", "addr", ":3000")
//
// Middleware adds an access log line per HTTP request and tags the request
// with an X-Request-ID, reusing the client's header when one is sent.
package logging

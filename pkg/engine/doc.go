// Package engine runs the perfstub HTTP server.
//
// A Server wraps the route handler in the middleware chain and owns the
// listener:
//
//	request log -> CORS -> per-IP rate limit -> routes
//
// Basic usage:
//
//	rt, _ := routes.New(cfg)
//	srv := engine.NewServer(cfg, rt, engine.WithLogger(log))
//	if err := srv.Start(); err != nil { ... }
//	defer srv.Stop()
package engine

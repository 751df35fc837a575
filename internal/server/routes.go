package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page routes (HTML templates)
	mux.HandleFunc("/", s.app.PageHandler.ServeLogin)
	mux.Handle("/dashboard", s.app.DashboardHandler)

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// Auth gate
	mux.HandleFunc("/auth/login", s.app.AuthHandler.HandleLogin)
	mux.HandleFunc("/auth/logout", s.app.AuthHandler.HandleLogout)

	// API routes
	mux.Handle("/api/metrics", s.app.MetricsHandler)
	mux.Handle("/api/status", s.app.StatusHandler)
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}

package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {
	// Calendar views
	r.HandleFunc("/api/calendar/month", deps.CalendarViewHandler.GetMonth).Methods("GET")
	r.HandleFunc("/api/calendar/week", deps.CalendarViewHandler.GetWeek).Methods("GET")
	r.HandleFunc("/api/calendar/day", deps.CalendarViewHandler.GetDay).Methods("GET")

	// iCalendar export
	r.HandleFunc("/api/calendar/export.ics", deps.IcsHandler.Download).Methods("GET")

	// Google integration
	r.HandleFunc("/api/integrations/google/auth/login", deps.SyncHandler.Login).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.SyncHandler.Callback).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/logout", deps.SyncHandler.Logout).Methods("DELETE")
	r.HandleFunc("/api/integrations/google/auth", deps.SyncHandler.IsConnected).Methods("GET")
	r.HandleFunc("/api/integrations/google/sync", deps.SyncHandler.Sync).Methods("POST")

	// User
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
}

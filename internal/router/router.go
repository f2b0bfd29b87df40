package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"primariaPortal/internal/config"
	handlers "primariaPortal/internal/handler"
	"primariaPortal/internal/middleware"
	"primariaPortal/internal/models"
)

// New registers every route and wraps the router in the global chain.
// CORS sits outside the router so preflights never reach route matching.
func New(h *handlers.Handlers, gate middleware.Authenticator, cfg *config.Config) http.Handler {
	r := mux.NewRouter()

	signedIn := middleware.RequireRoles(gate)
	staff := middleware.RequireRoles(gate, models.RoleAdmin, models.RoleEditor)
	admin := middleware.RequireRoles(gate, models.RoleAdmin)
	optional := middleware.OptionalIdentity(gate)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/uploads/{name}", h.ServeUpload).Methods(http.MethodGet, http.MethodHead)

	// Full paths on one router: a subrouter's shared prefix matcher would
	// turn a wrong method on any but its last route into a 404.
	api := func(path string) string { return "/api" + path }

	// auth
	r.HandleFunc(api("/login"), h.Login).Methods(http.MethodPost)
	r.Handle(api("/me"), signedIn(http.HandlerFunc(h.Me))).Methods(http.MethodGet)

	// users
	r.Handle(api("/users"), admin(http.HandlerFunc(h.ListUsers))).Methods(http.MethodGet)
	r.Handle(api("/users/{id}/role"), admin(http.HandlerFunc(h.UpdateUserRole))).Methods(http.MethodPatch, http.MethodPut)

	// announcements
	r.HandleFunc(api("/announcements"), h.ListAnnouncements).Methods(http.MethodGet)
	r.Handle(api("/announcements"), staff(http.HandlerFunc(h.CreateAnnouncement))).Methods(http.MethodPost)
	r.Handle(api("/announcements/{id}"), optional(http.HandlerFunc(h.GetAnnouncement))).Methods(http.MethodGet)
	r.Handle(api("/announcements/{id}"), staff(http.HandlerFunc(h.UpdateAnnouncement))).Methods(http.MethodPut, http.MethodPatch)
	r.Handle(api("/announcements/{id}"), admin(http.HandlerFunc(h.DeleteAnnouncement))).Methods(http.MethodDelete)
	r.Handle(api("/admin/announcements"), staff(http.HandlerFunc(h.ListAllAnnouncements))).Methods(http.MethodGet)

	// community board
	r.HandleFunc(api("/documents"), h.ListDocuments).Methods(http.MethodGet)
	r.Handle(api("/documents"), optional(http.HandlerFunc(h.CreateDocument))).Methods(http.MethodPost)
	r.Handle(api("/documents/reply"), optional(http.HandlerFunc(h.ReplyDocument))).Methods(http.MethodPost)
	r.HandleFunc(api("/documents/{id}/like"), h.LikeDocument).Methods(http.MethodPost)
	r.Handle(api("/documents/{id}"), optional(http.HandlerFunc(h.DeleteDocument))).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, "Resursa nu a fost găsită", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
	})

	return middleware.Chain(r,
		middleware.Recover,
		middleware.Logging,
		middleware.CORS(cfg.AllowedOrigins),
	)
}

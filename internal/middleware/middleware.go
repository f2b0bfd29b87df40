package middleware

import (
	"net/http"
	"time"

	"primariaPortal/internal/auth"
	"primariaPortal/internal/config"
	handlers "primariaPortal/internal/handler"
	"primariaPortal/internal/logger"
	"primariaPortal/internal/models"
)

type Middleware func(http.Handler) http.Handler

// Authenticator resolves a bearer token; *auth.Gate implements it.
type Authenticator interface {
	Authenticate(token string) (*auth.Identity, error)
}

func identify(gate Authenticator, r *http.Request) (*auth.Identity, error) {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}
	return gate.Authenticate(token)
}

// RequireRoles lets the request through only with a valid token whose role is
// one of roles. No roles means any valid token.
func RequireRoles(gate Authenticator, roles ...models.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := identify(gate, r)
			if err == nil {
				err = auth.Authorize(id, roles...)
			}
			if err != nil {
				logger.Warningf("acces respins %s %s de la %s: %v", r.Method, r.URL.Path, r.RemoteAddr, err)
				handlers.WriteAppError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// OptionalIdentity resolves the caller when a token is sent. Anonymous requests
// pass; a token that fails verification is still rejected.
func OptionalIdentity(gate Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := identify(gate, r)
			if err != nil {
				logger.Warningf("token respins %s %s de la %s: %v", r.Method, r.URL.Path, r.RemoteAddr, err)
				handlers.WriteAppError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// CORS answers only origins on the allow-list, compared exactly after
// normalization.
func CORS(allowedOrigins []string) Middleware {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[config.NormalizeOrigin(o)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			ok := origin != "" && allowed[config.NormalizeOrigin(origin)]

			if ok {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Device-Id")
				h.Add("Vary", "Origin")
			}

			// preflight
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if !ok {
					logger.Debugf("origine CORS respinsă: %q", origin)
					w.WriteHeader(http.StatusForbidden)
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Infof("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Errorf("panică la %s %s: %v", r.Method, r.URL.Path, rec)
				handlers.WriteError(w, "A apărut o eroare internă. Încercați din nou mai târziu.", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Chain wraps h so that the first middleware is the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

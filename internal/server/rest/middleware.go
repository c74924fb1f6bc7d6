package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/auth"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// tokenFromRequest reads the "token" header, falling back to a bearer
// Authorization header.
func tokenFromRequest(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get(common.TokenHeaderName)); t != "" {
		return t
	}
	h := r.Header.Get(common.AuthorizationHeaderName)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// requireKind admits only requests carrying a valid token for kind and puts
// the caller into the request context. It never touches storage.
func (s *HTTPServer) requireKind(kind models.Kind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				s.fail(w, r, common.ErrUnauthenticated, "")
				return
			}

			id, err := s.tokens.Verify(token, kind)
			if err != nil {
				s.fail(w, r, common.ErrInvalidToken, "")
				return
			}

			ctx := auth.WithPrincipal(r.Context(), auth.Principal{ID: id, Kind: kind})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *HTTPServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

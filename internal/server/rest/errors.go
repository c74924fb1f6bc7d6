package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/coursehub/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
)

type messageBody struct {
	Message string `json:"message"`
}

type validationBody struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// fail writes the response for err. invalidMsg is the message used for
// validation failures and unreadable bodies on this route.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error, invalidMsg string) {
	var verr validation.Errors

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, validationBody{Message: invalidMsg, Errors: verr})
	case errors.Is(err, errBadBody):
		writeJSON(w, http.StatusBadRequest, validationBody{Message: invalidMsg})
	case errors.Is(err, common.ErrDuplicateIdentity):
		writeJSON(w, http.StatusConflict, messageBody{Message: "Email already exists"})
	case errors.Is(err, common.ErrBadCredentials):
		writeJSON(w, http.StatusUnauthorized, messageBody{Message: "Wrong credentials"})
	case errors.Is(err, common.ErrUnauthenticated):
		writeJSON(w, http.StatusForbidden, messageBody{Message: "Please sign in again!"})
	case errors.Is(err, common.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, messageBody{Message: "Invalid token"})
	case errors.Is(err, common.ErrNotFoundOrForbidden):
		writeJSON(w, http.StatusNotFound, messageBody{
			Message: "Course not found or you don't have permission to update this course",
		})
	case errors.Is(err, common.ErrCourseNotFound):
		writeJSON(w, http.StatusNotFound, messageBody{Message: "Course not found"})
	case errors.Is(err, common.ErrAlreadyPurchased):
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "You already bought the course"})
	case errors.Is(err, common.ErrMalformedID):
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "Wrong courseId"})
	default:
		s.logger.Error(r.Context(), "request failed", "error", err.Error(), "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, messageBody{Message: "Internal Server error"})
	}
}

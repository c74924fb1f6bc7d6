package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/auth"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/services"
	"github.com/go-chi/chi/v5"
)

const (
	msgBadCredentials = "Enter the correct credentials"
	msgBadContent     = "Enter the correct content"

	maxBodyBytes = 1 << 20
)

var errBadBody = errors.New("unreadable request body")

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errBadBody
	}
	return nil
}

// principal returns the caller placed in the context by requireKind.
func principal(r *http.Request) (auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return auth.Principal{}, common.ErrUnauthenticated
	}
	return p, nil
}

// purchaseBody mirrors the populated purchase document: the course is
// embedded under courseId.
type purchaseBody struct {
	ID        string        `json:"_id"`
	UserID    string        `json:"userId"`
	Course    models.Course `json:"courseId"`
	CreatedAt time.Time     `json:"createdAt"`
}

func toPurchaseBody(d models.PurchaseDetails) purchaseBody {
	return purchaseBody{ID: d.ID, UserID: d.UserID, Course: d.Course, CreatedAt: d.CreatedAt}
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageBody{Message: "ok"})
}

func (s *HTTPServer) handleSignup(kind models.Kind) http.HandlerFunc {
	created := "User signup Successfull"
	if kind == models.KindAdmin {
		created = "Admin Created Successfully"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var in services.SignupInput
		if err := decodeBody(w, r, &in); err != nil {
			s.fail(w, r, err, msgBadCredentials)
			return
		}

		p, err := s.auth.Signup(r.Context(), kind, in)
		if err != nil {
			s.fail(w, r, err, msgBadCredentials)
			return
		}

		s.logger.Info(r.Context(), "principal created", "kind", kind.String(), "id", p.ID)
		writeJSON(w, http.StatusCreated, messageBody{Message: created})
	}
}

func (s *HTTPServer) handleSignin(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.SigninInput
		if err := decodeBody(w, r, &in); err != nil {
			s.fail(w, r, err, msgBadCredentials)
			return
		}

		token, err := s.auth.Signin(r.Context(), kind, in)
		if err != nil {
			s.fail(w, r, err, msgBadCredentials)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Token   string `json:"token"`
			Message string `json:"message"`
		}{Token: token, Message: "You have successfully signed in"})
	}
}

func (s *HTTPServer) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	admin, err := principal(r)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	var in services.CourseInput
	if err := decodeBody(w, r, &in); err != nil {
		s.fail(w, r, err, msgBadContent)
		return
	}

	c, err := s.courses.Create(r.Context(), admin.ID, in)
	if err != nil {
		s.fail(w, r, err, msgBadContent)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		CourseID string `json:"courseId"`
		Message  string `json:"message"`
	}{CourseID: c.ID, Message: "Course Created Successfully"})
}

func (s *HTTPServer) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	admin, err := principal(r)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	var in services.CourseInput
	if err := decodeBody(w, r, &in); err != nil {
		s.fail(w, r, err, msgBadContent)
		return
	}

	c, err := s.courses.Update(r.Context(), chi.URLParam(r, "courseId"), admin.ID, in)
	if err != nil {
		s.fail(w, r, err, msgBadContent)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		UpdatedCourse *models.Course `json:"updatedCourse"`
		Message       string         `json:"message"`
	}{UpdatedCourse: c, Message: "You course is successfully updated"})
}

func (s *HTTPServer) handleListOwnCourses(w http.ResponseWriter, r *http.Request) {
	admin, err := principal(r)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	list, err := s.courses.ListByCreator(r.Context(), admin.ID)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Courses []models.Course `json:"courses"`
		Message string          `json:"message"`
	}{Courses: list, Message: "These are the courses below"})
}

func (s *HTTPServer) handlePresignImage(w http.ResponseWriter, r *http.Request) {
	admin, err := principal(r)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	key, url, err := s.courses.PresignImageUpload(r.Context(), admin.ID)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Key       string `json:"key"`
		UploadURL string `json:"uploadUrl"`
		Message   string `json:"message"`
	}{Key: key, UploadURL: url, Message: "Upload the image with a PUT request to uploadUrl"})
}

func (s *HTTPServer) handlePreview(w http.ResponseWriter, r *http.Request) {
	list, err := s.courses.ListAll(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Courses []models.Course `json:"courses"`
		Message string          `json:"message"`
	}{Courses: list, Message: "Available courses"})
}

func (s *HTTPServer) handlePurchase(w http.ResponseWriter, r *http.Request) {
	user, err := principal(r)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	d, err := s.purchases.Purchase(r.Context(), user.ID, chi.URLParam(r, "courseId"))
	s.metrics.ObservePurchase(purchaseOutcome(err))
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		PopulatedPurchase purchaseBody `json:"populatedPurchase"`
		Message           string       `json:"message"`
	}{PopulatedPurchase: toPurchaseBody(*d), Message: "You have successfully purchased the course"})
}

func purchaseOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, common.ErrAlreadyPurchased):
		return outcomeDuplicate
	case errors.Is(err, common.ErrCourseNotFound):
		return outcomeNotFound
	case errors.Is(err, common.ErrMalformedID):
		return outcomeInvalid
	default:
		return outcomeError
	}
}

func (s *HTTPServer) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	user, err := principal(r)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	list, err := s.purchases.ListPurchases(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	body := make([]purchaseBody, 0, len(list))
	for _, d := range list {
		body = append(body, toPurchaseBody(d))
	}

	writeJSON(w, http.StatusOK, struct {
		PurchasedCourses []purchaseBody `json:"purchasedCourses"`
		Message          string         `json:"message"`
	}{PurchasedCourses: body, Message: "You bought the following courses"})
}

package services

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// SignupInput is the payload of a signup request for either kind.
type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

func (in SignupInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(6, 15)),
		validation.Field(&in.FirstName, validation.Required, validation.Length(1, 20)),
		validation.Field(&in.LastName, validation.Required, validation.Length(1, 20)),
	)
}

type SigninInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in SigninInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(6, 15)),
	)
}

// CourseInput is shared by course creation and update.
type CourseInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

func (in CourseInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Description, validation.Required, validation.Length(1, 500)),
		validation.Field(&in.Price, validation.By(positive)),
		validation.Field(&in.ImageURL, validation.Length(0, 2048)),
	)
}

func positive(value interface{}) error {
	if v, ok := value.(float64); !ok || v <= 0 {
		return errors.New("must be greater than 0")
	}
	return nil
}

package types

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports JSON field names in validation errors.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// LoginRequest is the login form. The Gateway expects capitalized keys.
type LoginRequest struct {
	Email    string `json:"Email" validate:"required"`
	Password string `json:"Password" validate:"required"`
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return check(r)
}

// LoginResponse is the Gateway's login reply.
type LoginResponse struct {
	User struct {
		ID ID `json:"id"`
	} `json:"user"`
}

// SignupRequest is the first registration step.
type SignupRequest struct {
	FullName string `json:"FullName" validate:"required"`
	Email    string `json:"Email" validate:"required,email"`
	Password string `json:"Password" validate:"required"`
}

// Validate validates the SignupRequest using the validator.
func (r *SignupRequest) Validate() error {
	return check(r)
}

// SignupRecord is the created-user record returned by signup. The Gateway has
// used several envelope shapes over time, so the raw body is kept alongside the
// resolved id.
type SignupRecord struct {
	Raw json.RawMessage `json:"raw"`
}

// signupWrappers are the keys the Gateway has nested the created user under.
var signupWrappers = []string{"user", "newUser"}

// UserID resolves the created user's id from the known envelope shapes:
// _id, id, user._id, user.id, newUser._id.
func (r SignupRecord) UserID() ID {
	m, err := rawFields(r.Raw)
	if err != nil {
		return ""
	}
	if id := firstID(m, "_id", "id"); !id.IsZero() {
		return id
	}
	for _, wrapper := range signupWrappers {
		inner, ok := m[wrapper]
		if !ok {
			continue
		}
		im, err := rawFields(inner)
		if err != nil {
			continue
		}
		if id := firstID(im, "_id", "id"); !id.IsZero() {
			return id
		}
	}
	return ""
}

// FullName returns the FullName the user registered with, if echoed back.
func (r SignupRecord) FullName() string {
	m, err := rawFields(r.Raw)
	if err != nil {
		return ""
	}
	nameKeys := []string{"FullName", "full_name", "fullName"}
	if name := firstString(m, nameKeys...); name != "" {
		return name
	}
	for _, wrapper := range signupWrappers {
		im, err := rawFields(m[wrapper])
		if err != nil {
			continue
		}
		if name := firstString(im, nameKeys...); name != "" {
			return name
		}
	}
	return ""
}

// PlacementRequest is the second registration step (academic details and files).
type PlacementRequest struct {
	FullName   string            `validate:"required"`
	RollNumber string            `validate:"required"`
	Year       string            `validate:"required,oneof=1 2 3 4"`
	Semester   string            `validate:"required"`
	Grades     map[string]string // gpa_sem_N -> grade text
	Image      *FileUpload
	Resume     *FileUpload `validate:"required"`
}

// Validate validates the PlacementRequest using the validator.
func (r *PlacementRequest) Validate() error {
	return check(r)
}

package api

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/goliatone/go-enroll/auth"
	"github.com/goliatone/go-enroll/internal/validators"
)

// bcrypt only looks at the first 72 bytes
const maxPasswordLength = 72

type RegisterPayload struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Age       *int   `json:"age,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	Password  string `json:"password"`
	AdminCode string `json:"admin_code,omitempty"`
}

func (p RegisterPayload) Validate() error {
	return validators.ToError(validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&p.Age, validation.Min(1), validation.Max(150)),
		validation.Field(&p.Phone, validation.Length(0, 32)),
		validation.Field(&p.Role, validation.Required, validation.By(knownRole)),
		validation.Field(&p.Password, validation.Required, validation.Length(1, maxPasswordLength)),
	))
}

func (p RegisterPayload) message() auth.RegisterUserMessage {
	return auth.RegisterUserMessage{
		Email:     strings.TrimSpace(p.Email),
		Name:      p.Name,
		Age:       p.Age,
		Phone:     p.Phone,
		Role:      p.Role,
		Password:  p.Password,
		AdminCode: p.AdminCode,
	}
}

// knownRole accepts whatever auth.ParseRole accepts. The handler parses the
// raw value again, so casing is normalised in one place.
func knownRole(value any) error {
	raw, _ := value.(string)
	if _, err := auth.ParseRole(raw); err != nil {
		return errors.New("must be one of super_admin, admin, student")
	}
	return nil
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p LoginPayload) Validate() error {
	return validators.ToError(validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required),
		validation.Field(&p.Password, validation.Required),
	))
}

type PasswordResetRequestPayload struct {
	Email string `json:"email"`
}

func (p PasswordResetRequestPayload) Validate() error {
	return validators.ToError(validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
	))
}

type PasswordResetPayload struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (p PasswordResetPayload) Validate() error {
	return validators.ToError(validation.ValidateStruct(&p,
		validation.Field(&p.Token, validation.Required),
		validation.Field(&p.NewPassword, validation.Required, validation.Length(1, maxPasswordLength)),
	))
}

// payload is implemented by every validated request body
type payload interface {
	Validate() error
}

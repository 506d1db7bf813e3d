package validator

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate = validator.New(validator.WithRequiredStructEnabled())
	strict   = bluemonday.StrictPolicy()
)

const (
	maxPasswordLength = 72 // limite do bcrypt
	minPasswordLength = 8
	maxEmailLength    = 254
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Message junta as mensagens numa linha, para o banner de erro.
func (r ValidationResult) Message() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, " ")
}

type RegistrationForm struct {
	Email    string `validate:"required,max=254,email"`
	Password string `validate:"required,min=8,max=72"`
}

type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type ShoppingListForm struct {
	Name  string `validate:"required,max=100"`
	Emoji string `validate:"max=16"`
}

type ProfileForm struct {
	Username  string   `validate:"max=50"`
	Address   string   `validate:"max=200"`
	Latitude  *float64 `validate:"omitnil,latitude"`
	Longitude *float64 `validate:"omitnil,longitude"`
}

type ContactRequestForm struct {
	Email string `validate:"required,email"`
}

type PostForm struct {
	Body string `validate:"required,max=1000"`
}

// Validate valida s e devolve os erros por campo com mensagens em alemão.
func Validate(s any) ValidationResult {
	err := validate.Struct(s)
	if err == nil {
		return ValidationResult{Valid: true}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationResult{Errors: []ValidationError{{Message: err.Error()}}}
	}

	result := ValidationResult{Errors: make([]ValidationError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: message(fe),
		})
	}
	return result
}

func message(fe validator.FieldError) string {
	field := fieldLabels[fe.Field()]
	if field == "" {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s ist erforderlich.", field)
	case "email":
		return "Ungültige E-Mail-Adresse."
	case "min":
		return fmt.Sprintf("%s muss mindestens %s Zeichen haben.", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s darf höchstens %s Zeichen haben.", field, fe.Param())
	case "latitude", "longitude":
		return "Ungültige Koordinaten."
	default:
		return fmt.Sprintf("%s ist ungültig.", field)
	}
}

var fieldLabels = map[string]string{
	"Email":    "E-Mail",
	"Password": "Passwort",
	"Name":     "Name",
	"Emoji":    "Emoji",
	"Username": "Benutzername",
	"Address":  "Adresse",
	"Body":     "Text",
}

func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("E-Mail ist erforderlich")
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("E-Mail zu lang (maximal %d Zeichen)", maxEmailLength)
	}
	if err := validate.Var(email, "email"); err != nil {
		return fmt.Errorf("ungültige E-Mail-Adresse")
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("Passwort ist erforderlich")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("Passwort muss mindestens %d Zeichen haben", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("Passwort zu lang (maximal %d Bytes)", maxPasswordLength)
	}
	return nil
}

// NormalizeEmail remove espaços e padroniza caixa baixa.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Sanitize remove todo HTML de texto livre vindo de formulários. O resultado
// é texto puro; o escape acontece na renderização.
func Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

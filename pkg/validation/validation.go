package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// usernamePattern mirrors the sign-up form rules: letters, digits and
// underscores only.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var validate = newValidator()

// SignUpInput is the shape of a registration request.
type SignUpInput struct {
	Username string `json:"username" validate:"required,min=2,max=20,username_chars"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UsernameQuery is the shape of a username-availability check.
type UsernameQuery struct {
	Username string `validate:"required,min=2,max=20,username_chars"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration cannot fail: the tag name is fixed and the func is non-nil.
	_ = v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStruct runs the schema tags and, on failure, returns a single
// error whose message joins the per-field problems.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, describe(fe))
	}
	return fmt.Errorf("%s", strings.Join(messages, ", "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be no more than %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "username_chars":
		return fmt.Sprintf("%s must not contain special characters", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

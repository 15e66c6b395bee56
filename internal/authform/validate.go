package authform

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Values are the raw inputs as submitted.
type Values struct {
	Email    string
	Password string
}

// Credentials are validated inputs, handed straight to an action.
type Credentials struct {
	Email    string `form:"email" validate:"required,email,max=100"`
	Password string `form:"password" validate:"required,min=6"`
}

// Validator checks submitted values for the fields a view shows.
type Validator interface {
	Validate(fields []Field, values Values) (Credentials, error)
}

// FieldError describes one failed rule.
type FieldError struct {
	Field   Field
	Rule    string
	Message string
}

// ValidationError is returned by a Validator when any field fails.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ByField indexes the first message for each field, for rendering.
func (e *ValidationError) ByField() map[Field]string {
	out := make(map[Field]string, len(e.Errors))
	for _, fe := range e.Errors {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

var ruleMessages = map[Field]map[string]string{
	FieldEmail: {
		"required": "Email is required",
		"email":    "Please, provide a valid email address",
		"max":      "Must be no more than 100 characters!",
	},
	FieldPassword: {
		"required": "Password is required",
		"min":      "Please, at least 6 characters long",
	},
}

var structFields = map[Field]string{
	FieldEmail:    "Email",
	FieldPassword: "Password",
}

// PlaygroundValidator implements Validator on top of go-playground/validator.
type PlaygroundValidator struct {
	validate *validator.Validate
}

// NewValidator creates the default field validator.
func NewValidator() *PlaygroundValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name := strings.SplitN(sf.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &PlaygroundValidator{validate: v}
}

// Validate checks only the listed fields. Values for fields the view does
// not show are dropped from the returned credentials.
func (p *PlaygroundValidator) Validate(fields []Field, values Values) (Credentials, error) {
	creds := Credentials{Email: strings.TrimSpace(values.Email), Password: values.Password}

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if name, ok := structFields[f]; ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return Credentials{}, nil
	}

	if err := p.validate.StructPartial(creds, names...); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Credentials{}, err
		}
		return Credentials{}, translate(verrs)
	}

	out := Credentials{}
	for _, f := range fields {
		switch f {
		case FieldEmail:
			out.Email = creds.Email
		case FieldPassword:
			out.Password = creds.Password
		}
	}
	return out, nil
}

func translate(verrs validator.ValidationErrors) *ValidationError {
	ve := &ValidationError{}
	for _, fe := range verrs {
		field := Field(fe.Field())
		msg, ok := ruleMessages[field][fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", field)
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Rule: fe.Tag(), Message: msg})
	}
	return ve
}

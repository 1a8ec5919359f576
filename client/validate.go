package client

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// PageRequest is the pagination input of list operations.
type PageRequest struct {
	PageNumber int `json:"page_number" validate:"gte=0"`
	PageSize   int `json:"page_size" validate:"gte=1,lte=100"`
}

// CreateTaskRequest is the body of the create task request.
type CreateTaskRequest struct {
	Text string `json:"text" validate:"notblank"`
}

// Validate checks v against its `validate` tags.
// Failures are marked with ErrInvalidArgument.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Mark(errors.Wrap(err, "validation failed"), ErrInvalidArgument)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.Mark(errors.Newf("%s", strings.Join(msgs, "; ")), ErrInvalidArgument)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fe.Field() + " must be greater than or equal to " + fe.Param()
	case "lte":
		return fe.Field() + " must be less than or equal to " + fe.Param()
	case "notblank", "required":
		return fe.Field() + " is required"
	case "uuid":
		return fe.Field() + " must be a valid UUID"
	default:
		return fe.Field() + " failed on the '" + fe.Tag() + "' validation"
	}
}

// ValidateID checks that id is set
func ValidateID(name string, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.Mark(errors.Newf("%s is required", name), ErrInvalidArgument)
	}
	return nil
}

// ParseID parses a textual UUID argument.
func ParseID(name, value string) (uuid.UUID, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return uuid.Nil, errors.Mark(errors.Newf("%s is required", name), ErrInvalidArgument)
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, errors.Mark(errors.Newf("%s must be a valid UUID: %q", name, value), ErrInvalidArgument)
	}
	if id == uuid.Nil {
		return uuid.Nil, errors.Mark(errors.Newf("%s is required", name), ErrInvalidArgument)
	}
	return id, nil
}

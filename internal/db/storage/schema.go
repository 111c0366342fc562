package storage

import (
	"errors"
	"fmt"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/patric-chuzhbe/userdir/internal/models"
)

var validate = validator.New()

var fieldLabels = map[string]string{
	"Name":   "name",
	"Email":  "email",
	"Gender": "gender",
}

// NewID returns a fresh document id.
func NewID() string {
	return uuid.New().String()
}

// NewUser builds a document from a create payload, applies the schema
// defaults and validates it. The id is left empty for the backend to assign.
func NewUser(fields models.UserFields) (models.User, error) {
	usr := models.User{
		Hobbies:  []string{},
		IsActive: true,
	}
	Merge(&usr, fields)

	return usr, Validate(&usr)
}

// Merge copies every sent field into usr. A null age clears it. The id is
// never touched.
func Merge(usr *models.User, fields models.UserFields) {
	if fields.Name != nil {
		usr.Name = *fields.Name
	}
	if fields.Email != nil {
		usr.Email = *fields.Email
	}
	if fields.Age.Present() {
		usr.Age = fields.Age.Get()
	}
	if fields.Gender != nil {
		usr.Gender = *fields.Gender
	}
	if fields.Hobbies != nil {
		usr.Hobbies = append([]string{}, (*fields.Hobbies)...)
	}
	if fields.Bio != nil {
		usr.Bio = *fields.Bio
	}
	if fields.IsActive != nil {
		usr.IsActive = *fields.IsActive
	}
	if usr.Hobbies == nil {
		usr.Hobbies = []string{}
	}
}

// Validate checks the schema constraints that do not need other documents.
// Email uniqueness is the backend's job.
func Validate(usr *models.User) error {
	err := validate.Struct(usr)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	result := &models.ValidationError{Fields: map[string]string{}}
	for _, fe := range fieldErrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = strings.ToLower(fe.Field())
		}
		result.Fields[label] = fieldMessage(fe)
	}

	return result
}

// DuplicateEmail is the error every backend returns on an email collision.
func DuplicateEmail() error {
	return models.NewValidationError("email", "Email already exists")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fmt.Sprintf("`%v` is not a valid enum value for path `%s`", fe.Value(), strings.ToLower(fe.Field()))
	default:
		return fe.Field() + " is invalid"
	}
}

package client

import (
	"github.com/patric-chuzhbe/userdir/internal/models"
)

const (
	MinAge = 18
	MaxAge = 100
)

// HobbyOptions are the hobbies offered by the form.
var HobbyOptions = []string{
	"Reading",
	"Gaming",
	"Cooking",
	"Traveling",
	"Sports",
	"Music",
	"Art",
	"Photography",
}

// FormData is what the add/edit form edits.
type FormData struct {
	Name     string
	Email    string
	Age      *int
	Gender   models.Gender
	Hobbies  []string
	Bio      string
	IsActive bool
}

// FormDefaults is the content of an empty add form.
func FormDefaults() FormData {
	age := MinAge
	return FormData{
		Age:      &age,
		Gender:   models.GenderMale,
		Hobbies:  []string{},
		IsActive: true,
	}
}

// FormDataOf prefills the edit form from a stored user.
func FormDataOf(usr models.User) FormData {
	data := FormData{
		Name:     usr.Name,
		Email:    usr.Email,
		Gender:   usr.Gender,
		Hobbies:  append([]string{}, usr.Hobbies...),
		Bio:      usr.Bio,
		IsActive: usr.IsActive,
	}
	if usr.Age != nil {
		age := *usr.Age
		data.Age = &age
	}

	return data
}

// Validate runs the checks the form applies before anything is sent.
func (d FormData) Validate() error {
	fields := map[string]string{}

	if d.Name == "" {
		fields["name"] = "Name is required"
	}
	if d.Email == "" {
		fields["email"] = "Email is required"
	}
	if d.Age != nil && (*d.Age < MinAge || *d.Age > MaxAge) {
		fields["age"] = "Age must be between 18 and 100"
	}
	if !isCanonical(d.Gender) {
		fields["gender"] = "Gender must be Male, Female or Other"
	}

	if len(fields) == 0 {
		return nil
	}

	return &models.ValidationError{Fields: fields}
}

// Fields is the request payload carrying every form field.
func (d FormData) Fields() models.UserFields {
	name := d.Name
	email := d.Email
	gender := d.Gender
	hobbies := append([]string{}, d.Hobbies...)
	bio := d.Bio
	isActive := d.IsActive

	fields := models.UserFields{
		Name:     &name,
		Email:    &email,
		Gender:   &gender,
		Hobbies:  &hobbies,
		Bio:      &bio,
		Age:      models.OptionalOf(d.Age),
		IsActive: &isActive,
	}

	return fields
}

func isCanonical(g models.Gender) bool {
	for _, known := range models.Genders {
		if g == known {
			return true
		}
	}
	return false
}

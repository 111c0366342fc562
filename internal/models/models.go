// Package models holds the types shared by the server, the storage backends
// and the terminal client: the User document, its write payload, the HTTP
// envelopes and the mutation events.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Gender is the enumerated gender of a user. Only the capitalized values
// below are stored; anything else is rejected at write time.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists the accepted values in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// ParseGender maps user input to the canonical casing, ignoring case and
// surrounding spaces.
func ParseGender(s string) (Gender, bool) {
	s = strings.TrimSpace(s)
	for _, g := range Genders {
		if strings.EqualFold(s, string(g)) {
			return g, true
		}
	}

	return "", false
}

// User is the single document type kept by the record store.
type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required"`
	Age      *int     `json:"age,omitempty"`
	Gender   Gender   `json:"gender" validate:"required,oneof=Male Female Other"`
	Hobbies  []string `json:"hobbies"`
	Bio      string   `json:"bio,omitempty"`
	IsActive bool     `json:"isActive"`
}

// UserFields is the body of create and update requests. A nil field was not
// sent by the client: create applies the schema default, update leaves the
// stored value untouched. Age may also be sent as null to clear it.
type UserFields struct {
	Name     *string       `json:"name,omitempty"`
	Email    *string       `json:"email,omitempty"`
	Age      Optional[int] `json:"age"`
	Gender   *Gender       `json:"gender,omitempty"`
	Hobbies  *[]string     `json:"hobbies,omitempty"`
	Bio      *string       `json:"bio,omitempty"`
	IsActive *bool         `json:"isActive,omitempty"`
}

// MarshalJSON leaves age out of the body when it was not set.
func (f UserFields) MarshalJSON() ([]byte, error) {
	type plain UserFields
	body := struct {
		plain
		Age json.RawMessage `json:"age,omitempty"`
	}{plain: plain(f)}

	if f.Age.Present() {
		age, err := json.Marshal(f.Age)
		if err != nil {
			return nil, err
		}
		body.Age = age
	}

	return json.Marshal(body)
}

// FieldsOf returns a payload that overwrites every field of u.
func FieldsOf(u User) UserFields {
	hobbies := append([]string{}, u.Hobbies...)
	gender := u.Gender

	return UserFields{
		Name:     &u.Name,
		Email:    &u.Email,
		Age:      OptionalOf(u.Age),
		Gender:   &gender,
		Hobbies:  &hobbies,
		Bio:      &u.Bio,
		IsActive: &u.IsActive,
	}
}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is written on every failed request.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

const (
	StorageTypePostgresql = iota
	StorageTypeSQLite
	StorageTypeFile
	StorageTypeMemory
)

// UserEventType names a committed mutation.
type UserEventType string

const (
	UserCreated UserEventType = "user.created"
	UserUpdated UserEventType = "user.updated"
	UserDeleted UserEventType = "user.deleted"
)

// UserEvent is published after a mutation has been stored.
type UserEvent struct {
	Type       UserEventType `json:"type"`
	UserID     string        `json:"userId"`
	User       *User         `json:"user,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}

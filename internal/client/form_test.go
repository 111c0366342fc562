package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/userdir/internal/models"
)

func TestFormDefaults(t *testing.T) {
	data := FormDefaults()

	require.NotNil(t, data.Age)
	assert.Equal(t, 18, *data.Age)
	assert.Equal(t, models.GenderMale, data.Gender)
	assert.True(t, data.IsActive)
	assert.NotNil(t, data.Hobbies)
	assert.Empty(t, data.Hobbies)
	assert.Empty(t, data.Name)
}

func TestFormValidate(t *testing.T) {
	valid := FormDefaults()
	valid.Name = "Ann"
	valid.Email = "ann@x.com"
	assert.NoError(t, valid.Validate())

	empty := FormDefaults()
	err := empty.Validate()
	var valErr *models.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "name")
	assert.Contains(t, valErr.Fields, "email")

	young := valid
	age := 17
	young.Age = &age
	require.ErrorAs(t, young.Validate(), &valErr)
	assert.Contains(t, valErr.Fields, "age")

	old := valid
	age101 := 101
	old.Age = &age101
	assert.Error(t, old.Validate())

	noAge := valid
	noAge.Age = nil
	assert.NoError(t, noAge.Validate())

	lower := valid
	lower.Gender = "male"
	require.ErrorAs(t, lower.Validate(), &valErr)
	assert.Contains(t, valErr.Fields, "gender")
}

func TestFormDataRoundTrip(t *testing.T) {
	age := 40
	usr := models.User{
		ID:       "id-1",
		Name:     "Bob",
		Email:    "bob@x.com",
		Age:      &age,
		Gender:   models.GenderMale,
		Hobbies:  []string{"Art"},
		Bio:      "hi",
		IsActive: false,
	}

	data := FormDataOf(usr)
	data.Hobbies[0] = "Music"
	assert.Equal(t, "Art", usr.Hobbies[0])

	fields := data.Fields()
	require.NotNil(t, fields.IsActive)
	assert.False(t, *fields.IsActive)
	require.NotNil(t, fields.Age.Get())
	assert.Equal(t, 40, *fields.Age.Get())

	data.Age = nil
	fields = data.Fields()
	assert.True(t, fields.Age.Present())
	assert.Nil(t, fields.Age.Get())
	assert.Equal(t, []string{"Music"}, *fields.Hobbies)
}

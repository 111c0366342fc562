package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserFieldsAgeStates(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		present bool
		age     *int
	}{
		{"omitted", `{"name": "Ann"}`, false, nil},
		{"null", `{"name": "Ann", "age": null}`, true, nil},
		{"value", `{"name": "Ann", "age": 30}`, true, intPtr(30)},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var fields UserFields
			require.NoError(t, json.Unmarshal([]byte(testCase.body), &fields))

			assert.Equal(t, testCase.present, fields.Age.Present())
			assert.Equal(t, testCase.age, fields.Age.Get())

			encoded, err := json.Marshal(fields)
			require.NoError(t, err)
			assert.JSONEq(t, testCase.body, string(encoded))
		})
	}
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var fields UserFields
	assert.Error(t, json.Unmarshal([]byte(`{"age": "old"}`), &fields))
}

func TestOptionalGetReturnsCopy(t *testing.T) {
	age := Set(20)
	got := age.Get()
	*got = 99

	assert.Equal(t, 20, *age.Get())
	assert.Nil(t, Null[int]().Get())
	assert.False(t, Optional[int]{}.Present())
}

func intPtr(v int) *int {
	return &v
}

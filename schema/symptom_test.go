package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriStateJSON(t *testing.T) {
	var r struct {
		A TriState `json:"a"`
		B TriState `json:"b"`
		C TriState `json:"c"`
	}
	err := json.Unmarshal([]byte(`{"a":true,"b":false,"c":null}`), &r)
	assert.NoError(t, err)
	assert.Equal(t, Yes, r.A)
	assert.Equal(t, No, r.B)
	assert.Equal(t, Unset, r.C)

	b, err := json.Marshal(r)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"a":true,"b":false,"c":null}`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"a":"maybe"}`), &r))
}

func TestDetailsAnswered(t *testing.T) {
	r := NewSymptomReport()
	assert.False(t, r.DetailsAnswered())

	r.IsCrushing = Yes
	r.DoesRadiate = No
	assert.False(t, r.DetailsAnswered())

	r.IsSweating = No
	assert.True(t, r.DetailsAnswered())
}

func TestNewSymptomReportPrefillsCountryCode(t *testing.T) {
	r := NewSymptomReport()
	assert.Equal(t, "+234", r.Phone)
	assert.Equal(t, SymptomUnset, r.MainSymptom)
	assert.Equal(t, DurationUnset, r.Duration)
}

func TestSymptomReportClone(t *testing.T) {
	r := NewSymptomReport()
	r.Location = GPSLocation(6.5, 3.3)

	c := r.Clone()
	*r.Location.Lat = 9.9
	r.Phone = "+2348012345678"

	assert.Equal(t, 6.5, *c.Location.Lat)
	assert.Equal(t, "+234", c.Phone)
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("+2348012345678"))
	assert.True(t, ValidPhone("+2347012345678"))
	assert.True(t, ValidPhone("+2345112345678"))
	assert.True(t, ValidPhone("+2349112345678"))

	assert.False(t, ValidPhone("+2341012345678"), "invalid network digit")
	assert.False(t, ValidPhone("+2348212345678"), "invalid second digit")
	assert.False(t, ValidPhone("08012345678"), "missing country code")
	assert.False(t, ValidPhone("+234801234567"), "too short")
	assert.False(t, ValidPhone("+23480123456789"), "too long")
	assert.False(t, ValidPhone("+234"))
}

func TestSymptomAndDurationValid(t *testing.T) {
	assert.True(t, SymptomChestPain.Valid())
	assert.False(t, SymptomUnset.Valid())
	assert.False(t, Symptom("Headache").Valid())

	assert.True(t, DurationMoreThan60.Valid())
	assert.False(t, DurationUnset.Valid())
}

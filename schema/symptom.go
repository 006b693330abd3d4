package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Symptom string

const (
	SymptomUnset             Symptom = ""
	SymptomChestPain         Symptom = "Chest pain"
	SymptomShortnessOfBreath Symptom = "Shortness of breath"
	SymptomDizziness         Symptom = "Dizziness"
)

// Symptoms lists the selectable main symptoms in display order
var Symptoms = []Symptom{
	SymptomChestPain,
	SymptomShortnessOfBreath,
	SymptomDizziness,
}

func (s Symptom) Valid() bool {
	for _, v := range Symptoms {
		if s == v {
			return true
		}
	}
	return false
}

type Duration string

const (
	DurationUnset          Duration = ""
	DurationLessThan15     Duration = "<15min"
	DurationBetween15And60 Duration = "15-60min"
	DurationMoreThan60     Duration = ">1hr"
)

var Durations = []Duration{
	DurationLessThan15,
	DurationBetween15And60,
	DurationMoreThan60,
}

func (d Duration) Valid() bool {
	for _, v := range Durations {
		if d == v {
			return true
		}
	}
	return false
}

// TriState is a yes/no answer which may not be given yet
type TriState int8

const (
	Unset TriState = iota
	Yes
	No
)

func TriStateOf(b bool) TriState {
	if b {
		return Yes
	}
	return No
}

func (t TriState) IsSet() bool {
	return t == Yes || t == No
}

func (t TriState) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unset"
	}
}

// MarshalJSON encodes Unset as null and Yes/No as booleans
func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case Yes:
		return []byte("true"), nil
	case No:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (t *TriState) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null":
		*t = Unset
		return nil
	case "true":
		*t = Yes
		return nil
	case "false":
		*t = No
		return nil
	}

	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid yes/no answer %s: %w", string(data), err)
	}
	*t = TriStateOf(v)
	return nil
}

// SymptomReport is what a patient fills in through the triage wizard
type SymptomReport struct {
	MainSymptom Symptom  `json:"main_symptom" bson:"main_symptom"`
	IsCrushing  TriState `json:"is_crushing" bson:"is_crushing"`
	DoesRadiate TriState `json:"does_radiate" bson:"does_radiate"`
	IsSweating  TriState `json:"is_sweating" bson:"is_sweating"`
	Duration    Duration `json:"duration" bson:"duration"`
	Phone       string   `json:"phone" bson:"phone"`
	Location    Location `json:"location" bson:"location"`
}

// NewSymptomReport returns an empty report with the phone prefilled with the country code
func NewSymptomReport() SymptomReport {
	return SymptomReport{
		Phone: PhoneCountryPrefix,
	}
}

// DetailsAnswered tells whether all three detail questions have an answer
func (r SymptomReport) DetailsAnswered() bool {
	return r.IsCrushing.IsSet() && r.DoesRadiate.IsSet() && r.IsSweating.IsSet()
}

// Clone returns a deep copy which shares no memory with r
func (r SymptomReport) Clone() SymptomReport {
	c := r
	c.Location = r.Location.Clone()
	return c
}

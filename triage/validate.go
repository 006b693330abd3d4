package triage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/bitmark-inc/triage-api/schema"
)

const (
	FieldMainSymptom = "main_symptom"
	FieldDetails     = "details"
	FieldDuration    = "duration"
	FieldPhone       = "phone"
	FieldLocation    = "location"
	FieldState       = "state"
	FieldLGA         = "lga"
)

var (
	msgMainSymptom = &i18n.Message{ID: "validation.main_symptom", Other: "Please select a symptom."}
	msgDetails     = &i18n.Message{ID: "validation.details", Other: "Please answer all three questions."}
	msgDuration    = &i18n.Message{ID: "validation.duration", Other: "Please select a duration."}
	msgPhone       = &i18n.Message{ID: "validation.phone", Other: "Please enter a valid Nigerian phone number (e.g., +2348012345678)."}
	msgLocation    = &i18n.Message{ID: "validation.location", Other: "Please provide your location, either automatically or manually."}
	msgState       = &i18n.Message{ID: "validation.state", Other: "Please select a state from the list."}
	msgLGA         = &i18n.Message{ID: "validation.lga", Other: "Please select an LGA of the chosen state."}
)

// ValidationError lists the fields which block a step. Values are message ids.
type ValidationError struct {
	Step   Step
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid %s at step %s", strings.Join(fields, ", "), e.Step)
}

func newValidationError(step Step, field string, msg *i18n.Message) *ValidationError {
	return &ValidationError{
		Step:   step,
		Fields: map[string]string{field: msg.ID},
	}
}

// validateStep checks whether the report carries what the step asks for
func validateStep(step Step, r schema.SymptomReport) *ValidationError {
	switch step {
	case StepMainSymptom:
		if !r.MainSymptom.Valid() {
			return newValidationError(step, FieldMainSymptom, msgMainSymptom)
		}
	case StepDetails:
		if !r.DetailsAnswered() {
			return newValidationError(step, FieldDetails, msgDetails)
		}
	case StepDuration:
		if !r.Duration.Valid() {
			return newValidationError(step, FieldDuration, msgDuration)
		}
	case StepContact:
		if !schema.ValidPhone(r.Phone) {
			return newValidationError(step, FieldPhone, msgPhone)
		}
	case StepLocation:
		if !r.Location.Complete() {
			return newValidationError(step, FieldLocation, msgLocation)
		}
	}
	return nil
}

// stepFields are the error keys owned by each step
var stepFields = map[Step][]string{
	StepMainSymptom: {FieldMainSymptom},
	StepDetails:     {FieldDetails},
	StepDuration:    {FieldDuration},
	StepContact:     {FieldPhone},
	StepLocation:    {FieldLocation, FieldState, FieldLGA},
}

// Messages lists the validation texts for bundle registration
func Messages() []*i18n.Message {
	return []*i18n.Message{
		msgMainSymptom,
		msgDetails,
		msgDuration,
		msgPhone,
		msgLocation,
		msgState,
		msgLGA,
	}
}

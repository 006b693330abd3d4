package triage

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/bitmark-inc/triage-api/schema"
)

// Feedback is what a patient reads once the assessment is done
type Feedback struct {
	Title   *i18n.Message
	Message *i18n.Message
}

var feedbacks = map[schema.RiskTier]Feedback{
	schema.RiskLow: {
		Title:   &i18n.Message{ID: "feedback.low.title", Other: "Low Risk Detected"},
		Message: &i18n.Message{ID: "feedback.low.message", Other: "Your symptoms currently suggest a low risk. However, please continue to monitor your health and consult a doctor if symptoms worsen."},
	},
	schema.RiskMedium: {
		Title:   &i18n.Message{ID: "feedback.medium.title", Other: "Medium Risk Detected"},
		Message: &i18n.Message{ID: "feedback.medium.message", Other: "Your symptoms indicate a medium risk. We recommend visiting a nearby clinic or consulting a doctor soon for a professional evaluation."},
	},
	schema.RiskHigh: {
		Title:   &i18n.Message{ID: "feedback.high.title", Other: "High Risk Detected"},
		Message: &i18n.Message{ID: "feedback.high.message", Other: "Hang tight, help is on the way. We have alerted a nearby Community Health Worker who will contact you shortly. Please try to remain calm."},
	},
}

// FeedbackFor returns the feedback of a tier. ok is false for an unknown tier.
func FeedbackFor(tier schema.RiskTier) (Feedback, bool) {
	f, ok := feedbacks[tier]
	return f, ok
}

// FeedbackMessages lists the feedback texts for bundle registration
func FeedbackMessages() []*i18n.Message {
	messages := make([]*i18n.Message, 0, 2*len(schema.RiskTiers))
	for _, t := range schema.RiskTiers {
		messages = append(messages, feedbacks[t].Title, feedbacks[t].Message)
	}
	return messages
}

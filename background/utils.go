package background

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/bitmark-inc/triage-api/schema"
	"github.com/bitmark-inc/triage-api/utils"
)

var (
	msgNewAlert = &i18n.Message{
		ID:    "notification.alert.new",
		Other: "New HIGH risk alert #{{.ID}}: {{.Symptom}} reported by {{.Phone}}. Location: {{.Location}}. Please contact the patient now.",
	}
	msgAlertReminder = &i18n.Message{
		ID:    "notification.alert.reminder",
		Other: "Reminder {{.Reminder}}: alert #{{.ID}} from {{.Phone}} is still waiting for contact. Location: {{.Location}}.",
	}
	msgUnknownLocation = &i18n.Message{
		ID:    "notification.alert.unknown_location",
		Other: "not provided",
	}
)

// Messages lists the notification texts for bundle registration
func Messages() []*i18n.Message {
	return []*i18n.Message{msgNewAlert, msgAlertReminder, msgUnknownLocation}
}

// AlertLocation describes where the patient of an alert is, preferring the
// resolved address and adding the map link of a GPS fix
func AlertLocation(lang string, alert schema.Alert) string {
	location := alert.PatientLocation.Describe()
	if alert.ResolvedAddress != "" {
		location = alert.ResolvedAddress
	}
	if url := alert.PatientLocation.MapURL(); url != "" {
		if location == "" || location == "GPS Location Available" {
			location = url
		} else {
			location = location + " " + url
		}
	}
	if location == "" {
		location = utils.Localize(msgUnknownLocation, nil, lang)
	}
	return location
}

// AlertText renders the text message a worker receives about an alert
func AlertText(lang string, alert schema.Alert, reminder int) string {
	data := map[string]interface{}{
		"ID":       alert.ID,
		"Symptom":  string(alert.Symptoms.MainSymptom),
		"Phone":    alert.PatientPhone,
		"Location": AlertLocation(lang, alert),
		"Reminder": reminder,
	}

	if reminder > 0 {
		return utils.Localize(msgAlertReminder, data, lang)
	}
	return utils.Localize(msgNewAlert, data, lang)
}

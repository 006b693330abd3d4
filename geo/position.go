package geo

import "github.com/nicksnyder/go-i18n/v2/i18n"

// PositionError is the reason a device could not report its position
type PositionError string

const (
	PositionPermissionDenied PositionError = "permission-denied"
	PositionUnavailable      PositionError = "position-unavailable"
	PositionTimeout          PositionError = "timeout"
	PositionUnknown          PositionError = "unknown"
	PositionUnsupported      PositionError = "unsupported"
)

var positionMessages = map[PositionError]*i18n.Message{
	PositionPermissionDenied: {ID: "geolocation.permission_denied", Other: "You denied the request for Geolocation."},
	PositionUnavailable:      {ID: "geolocation.position_unavailable", Other: "Location information is unavailable."},
	PositionTimeout:          {ID: "geolocation.timeout", Other: "The request to get user location timed out."},
	PositionUnknown:          {ID: "geolocation.unknown", Other: "An unknown error occurred."},
	PositionUnsupported:      {ID: "geolocation.unsupported", Other: "Geolocation is not supported by your browser."},
}

// ParsePositionError maps any unrecognised reason to PositionUnknown
func ParsePositionError(reason string) PositionError {
	p := PositionError(reason)
	if _, ok := positionMessages[p]; ok {
		return p
	}
	return PositionUnknown
}

// Message returns the user facing text of the reason
func (p PositionError) Message() *i18n.Message {
	if m, ok := positionMessages[p]; ok {
		return m
	}
	return positionMessages[PositionUnknown]
}

// Messages lists every geolocation text for bundle registration
func Messages() []*i18n.Message {
	messages := make([]*i18n.Message, 0, len(positionMessages))
	for _, p := range []PositionError{
		PositionPermissionDenied,
		PositionUnavailable,
		PositionTimeout,
		PositionUnknown,
		PositionUnsupported,
	} {
		messages = append(messages, positionMessages[p])
	}
	return messages
}

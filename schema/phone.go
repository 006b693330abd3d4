package schema

import "regexp"

const PhoneCountryPrefix = "+234"

// phonePattern accepts Nigerian mobile numbers written with the country code
var phonePattern = regexp.MustCompile(`^\+234[7589][01]\d{8}$`)

func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

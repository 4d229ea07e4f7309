package utils

import "strings"

// MaskEmail hides most of the local part of an email address so it can
// appear in log output. "member@example.com" becomes "m***@example.com".
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return "***"
	}
	if at <= 1 {
		return email[:at] + "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

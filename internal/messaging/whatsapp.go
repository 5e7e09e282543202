// Package messaging builds WhatsApp click-to-chat links. Opening them is left
// to the caller.
package messaging

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/frontdesk/internal/models"
)

const (
	baseURL     = "https://wa.me/"
	countryCode = "39"
)

// BuildDeepLink returns the wa.me link opening a chat with phone and message
// prefilled, or false when phone cannot be turned into a number.
func BuildDeepLink(phone, message string) (string, bool) {
	number, ok := FormatPhoneNumber(phone)
	if !ok {
		return "", false
	}
	link := baseURL + number
	if message != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link, true
}

// FormatPhoneNumber normalises phone to international digits without a
// leading plus. National numbers get the 39 prefix.
func FormatPhoneNumber(phone string) (string, bool) {
	var b strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	digits := b.String()
	digits = strings.TrimPrefix(digits, "00")

	switch {
	case len(digits) < 6:
		return "", false
	case strings.HasPrefix(digits, countryCode) && len(digits) >= 11:
		// already international
	case strings.HasPrefix(digits, "3") || strings.HasPrefix(digits, "0"):
		digits = countryCode + digits
	case strings.HasPrefix(strings.TrimSpace(phone), "+"):
		// foreign number given with its own prefix
	default:
		return "", false
	}

	if len(digits) > 15 {
		return "", false
	}
	return digits, true
}

// ConfirmationMessage is the default appointment confirmation text.
func ConfirmationMessage(e models.Entry) string {
	name := e.Nome
	if name == "" {
		name = e.FullName()
	}
	when := "oggi"
	if e.EntryTime != "" {
		when = fmt.Sprintf("oggi alle %s", e.EntryTime)
	}
	return fmt.Sprintf("Ciao %s, ti confermiamo il tuo appuntamento di %s. A presto!", name, when)
}

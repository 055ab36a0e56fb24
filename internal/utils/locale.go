package utils

import "strings"

// Supported locales. Anything else falls back to French, the platform default.
var supportedLocales = map[string]bool{
	"fr": true,
	"en": true,
	"de": true,
	"ar": true,
}

const DefaultLocale = "fr"

// ParseAcceptLanguage picks the first supported language from an
// Accept-Language header value.
func ParseAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		lang := strings.TrimSpace(part)
		if i := strings.Index(lang, ";"); i >= 0 {
			lang = lang[:i]
		}
		if i := strings.Index(lang, "-"); i >= 0 {
			lang = lang[:i]
		}
		lang = strings.ToLower(strings.TrimSpace(lang))
		if supportedLocales[lang] {
			return lang
		}
	}
	return DefaultLocale
}

var insufficientBalanceMsg = map[string]string{
	"en": "Your wallet balance is too low to accept this booking. Please top up your wallet.",
	"fr": "Le solde de votre portefeuille est insuffisant pour accepter cette réservation. Veuillez recharger votre portefeuille.",
	"ar": "رصيد محفظتك غير كافٍ لقبول هذا الحجز. يرجى شحن محفظتك.",
}

// InsufficientBalanceMessage returns the wallet-gate failure message for a
// locale. German falls back to English; unknown locales to French.
func InsufficientBalanceMessage(locale string) string {
	if msg, ok := insufficientBalanceMsg[locale]; ok {
		return msg
	}
	if locale == "de" {
		return insufficientBalanceMsg["en"]
	}
	return insufficientBalanceMsg["fr"]
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAcceptLanguage(t *testing.T) {
	cases := map[string]string{
		"en-US,en;q=0.9,fr;q=0.8": "en",
		"fr-FR,fr;q=0.9":          "fr",
		"de":                      "de",
		"ar-MA":                   "ar",
		"pt-BR,es;q=0.9":          "fr",
		"":                        "fr",
		"  EN  ":                  "en",
	}
	for header, want := range cases {
		assert.Equalf(t, want, ParseAcceptLanguage(header), "header %q", header)
	}
}

func TestInsufficientBalanceMessageFallbacks(t *testing.T) {
	assert.NotEmpty(t, InsufficientBalanceMessage("en"))
	assert.NotEmpty(t, InsufficientBalanceMessage("fr"))
	assert.NotEmpty(t, InsufficientBalanceMessage("ar"))

	// German has no translation yet and reads the English text.
	assert.Equal(t, InsufficientBalanceMessage("en"), InsufficientBalanceMessage("de"))
	// Anything unknown falls back to the platform default.
	assert.Equal(t, InsufficientBalanceMessage("fr"), InsufficientBalanceMessage("es"))
	assert.NotEqual(t, InsufficientBalanceMessage("en"), InsufficientBalanceMessage("fr"))
}

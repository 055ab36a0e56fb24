package middleware

import (
	"taskerhub/internal/utils"

	"github.com/gin-gonic/gin"
)

// Locale derives the request locale from the Accept-Language header,
// restricted to the supported set with French as the default.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(localeKey, utils.ParseAcceptLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// GetLocale returns the request locale set by Locale.
func GetLocale(c *gin.Context) string {
	if v := c.GetString(localeKey); v != "" {
		return v
	}
	return utils.DefaultLocale
}

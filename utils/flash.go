package utils

import "github.com/gin-gonic/gin"

const flashCookie = "flash"

// SetFlash queues a message for the next rendered page.
func SetFlash(c *gin.Context, message string) {
	c.SetCookie(flashCookie, message, 60, "/", "", false, true)
}

// PopFlash returns the queued message, if any, and clears it.
func PopFlash(c *gin.Context) string {
	message, err := c.Cookie(flashCookie)
	if err != nil || message == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	return message
}

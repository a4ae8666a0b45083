package routes

import (
	"net/http"
	"net/url"

	"vpn-coordination-portal/internal/utils"

	"github.com/gin-gonic/gin"
)

// Merge into existing gin.H
func H(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["BaseURL"] = c.GetString("BaseURL")
	data["AppVersion"] = utils.GetVersion()
	return data
}

// Returns a HTML response with merged data
func HTML(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data = H(c, data)
	c.HTML(code, name, data)
}

// FlashRedirect sends the browser back to target with a one-shot message in
// the query string. Cookie-free; the target handler reads flash/flash_kind.
func FlashRedirect(c *gin.Context, target, message, kind string) {
	q := url.Values{}
	q.Set("flash", message)
	q.Set("flash_kind", kind)
	c.Redirect(http.StatusSeeOther, target+"?"+q.Encode())
}

// Flash pulls the one-shot message out of the query string for rendering.
func Flash(c *gin.Context) gin.H {
	message := c.Query("flash")
	if message == "" {
		return gin.H{}
	}
	kind := c.Query("flash_kind")
	if kind != "success" && kind != "error" {
		kind = "success"
	}
	return gin.H{"Flash": message, "FlashKind": kind}
}

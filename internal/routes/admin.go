package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"vpn-coordination-portal/internal/portal"

	"github.com/gin-gonic/gin"
)

// AdminRoutes registers the operator list view and its actions. The group is
// expected to already carry the IP allowlist middleware when one is
// configured.
func AdminRoutes(r *gin.RouterGroup, engine *portal.Engine) {

	r.GET("", func(c *gin.Context) {
		requests, err := engine.List(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}

		data := Flash(c)
		data["Requests"] = requests
		HTML(c, http.StatusOK, "admin", data)
	})

	// Each action redirects back to the list with the outcome as a flash.
	action := func(name string, run func(c *gin.Context, id int64) error) gin.HandlerFunc {
		return func(c *gin.Context) {
			id, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil {
				FlashRedirect(c, "/admin", "Invalid request id", "error")
				return
			}
			if err := run(c, id); err != nil {
				FlashRedirect(c, "/admin", GetErrorMessage(err), "error")
				return
			}
			FlashRedirect(c, "/admin", fmt.Sprintf("%s for request #%d", name, id), "success")
		}
	}

	r.POST("/resend-initial/:id", action("Initial emails resent", func(c *gin.Context, id int64) error {
		return engine.ResendInitial(c.Request.Context(), id)
	}))
	r.POST("/resend-agreement/:id", action("Agreement emails resent", func(c *gin.Context, id int64) error {
		return engine.ResendAgreement(c.Request.Context(), id)
	}))
	r.POST("/resend-final/:id", action("Final emails resent", func(c *gin.Context, id int64) error {
		return engine.ResendFinal(c.Request.Context(), id)
	}))
	r.POST("/cancel/:id", action("Request cancelled", func(c *gin.Context, id int64) error {
		return engine.Cancel(c.Request.Context(), id)
	}))
}

package routes

import (
	"net/http"

	"vpn-coordination-portal/internal/portal"
	"vpn-coordination-portal/internal/storage"

	"github.com/gin-gonic/gin"
)

// ReviewRoutes registers the review-and-agree page. Both side tokens land
// here; the page shows both payloads side by side and records the caller's
// agreement.
func ReviewRoutes(r *gin.RouterGroup, engine *portal.Engine) {

	r.GET("/:token", func(c *gin.Context) {
		token := c.Param("token")

		view, err := engine.Review(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if view.Request.IsCancelled() {
			HTML(c, http.StatusOK, "cancelled", gin.H{"Request": view.Request})
			return
		}

		data := Flash(c)
		data["View"] = view
		data["Token"] = token
		HTML(c, http.StatusOK, "review", data)
	})

	r.POST("/:token", func(c *gin.Context) {
		token := c.Param("token")

		switch action := c.PostForm("action"); action {
		case "edit":
			view, err := engine.Review(c.Request.Context(), token)
			if err != nil {
				AbortWithError(c, err)
				return
			}
			c.Redirect(http.StatusSeeOther, view.FormPath())

		case "agree":
			req, side, finalized, err := engine.RecordAgreement(c.Request.Context(), token)
			if err != nil {
				AbortWithError(c, err)
				return
			}
			if finalized || req.Status == storage.StatusFinalized {
				HTML(c, http.StatusOK, "agreed", gin.H{"Request": req, "Side": side, "Finalized": true})
				return
			}
			HTML(c, http.StatusOK, "agreed", gin.H{"Request": req, "Side": side, "Finalized": false})

		default:
			AbortWithError(c, NewHTTPError(http.StatusBadRequest, nil, "Unknown action"))
		}
	})
}

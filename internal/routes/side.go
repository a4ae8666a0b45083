package routes

import (
	"errors"
	"net/http"

	"vpn-coordination-portal/internal/portal"
	"vpn-coordination-portal/internal/storage"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// SideFormRoutes registers the tokenized per-side form under the given
// group, one registration per side. The token decides which record the form
// belongs to; side guards the token against the other side's endpoint.
func SideFormRoutes(r *gin.RouterGroup, engine *portal.Engine, side storage.Side) {

	showForm := func(c *gin.Context) {
		token := c.Param("token")

		req, got, err := engine.ResolveToken(c.Request.Context(), token)
		if err != nil || got != side {
			AbortWithError(c, portal.ErrNotFound)
			return
		}

		if req.IsCancelled() {
			HTML(c, http.StatusOK, "cancelled", gin.H{"Request": req})
			return
		}

		data := Flash(c)
		data["Request"] = req
		data["Side"] = side
		data["Token"] = token
		data["Data"] = req.SideData(side) // pre-fill on re-visit, nil first time
		data["Agreed"] = req.Agreed(side)
		HTML(c, http.StatusOK, "side_form", data)
	}

	submitForm := func(c *gin.Context) {
		token := c.Param("token")

		var data storage.SideConfig
		if err := c.ShouldBind(&data); err != nil {
			AbortWithError(c, NewHTTPError(http.StatusBadRequest, err, "Invalid form submission"))
			return
		}

		req, err := engine.SubmitSideData(c.Request.Context(), token, side, data)
		if err != nil {
			if errors.Is(err, portal.ErrValidation) {
				// Redisplay the form with the message instead of the error page
				FlashRedirect(c, "/"+string(side)+"/"+token, GetErrorMessage(err), "error")
				return
			}
			AbortWithError(c, err)
			return
		}

		if req.Status == storage.StatusReviewing {
			c.Redirect(http.StatusSeeOther, "/agree/"+req.Token(side))
			return
		}
		FlashRedirect(c, "/"+string(side)+"/"+token, "Details saved. Waiting for the other side.", "success")
	}

	r.GET("/:token", showForm)
	r.POST("/:token", submitForm)

	// QR code of the form link, for handing the URL to a phone
	r.GET("/:token/qr.png", func(c *gin.Context) {
		token := c.Param("token")

		_, got, err := engine.ResolveToken(c.Request.Context(), token)
		if err != nil || got != side {
			AbortWithError(c, portal.ErrNotFound)
			return
		}

		url := c.GetString("BaseURL") + "/" + string(side) + "/" + token
		png, err := qrcode.Encode(url, qrcode.Medium, qrImageSize)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})
}

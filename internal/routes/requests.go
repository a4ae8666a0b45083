package routes

import (
	"net/http"

	"vpn-coordination-portal/internal/portal"
	"vpn-coordination-portal/internal/storage"

	"github.com/gin-gonic/gin"
)

// newRequestForm mirrors the field names of the new-request page.
type newRequestForm struct {
	Name               string `form:"vpn_name"`
	ConnType           string `form:"vpn_type"`
	Reason             string `form:"reason"`
	RequesterName      string `form:"requester_name"`
	RequesterEmail     string `form:"requester_email"`
	RemoteContactName  string `form:"remote_contact_name"`
	RemoteContactEmail string `form:"remote_contact_email"`
	LocalTeamEmail     string `form:"local_team_email"`
}

// RequestRoutes registers the public landing page and request creation.
func RequestRoutes(r *gin.RouterGroup, engine *portal.Engine) {

	r.GET("/", func(c *gin.Context) {
		data := Flash(c)
		data["ConnTypes"] = []string{storage.ConnTypePolicy, storage.ConnTypeRouted}
		HTML(c, http.StatusOK, "index", data)
	})

	r.POST("/request/new", func(c *gin.Context) {
		var form newRequestForm
		if err := c.ShouldBind(&form); err != nil {
			AbortWithError(c, NewHTTPError(http.StatusBadRequest, err, "Invalid form submission"))
			return
		}

		req, err := engine.Create(c.Request.Context(), portal.CreateInput{
			Name:               form.Name,
			ConnType:           form.ConnType,
			Reason:             form.Reason,
			RequesterName:      form.RequesterName,
			RequesterEmail:     form.RequesterEmail,
			RemoteContactName:  form.RemoteContactName,
			RemoteContactEmail: form.RemoteContactEmail,
			LocalTeamEmail:     form.LocalTeamEmail,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		HTML(c, http.StatusOK, "created", gin.H{
			"Request":    req,
			"RemotePath": "/remote/" + req.RemoteToken,
			"LocalPath":  "/local/" + req.LocalToken,
		})
	})
}

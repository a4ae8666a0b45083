package routes

import (
	"net/http"

	"vpn-coordination-portal/internal/utils"

	"github.com/gin-gonic/gin"
)

func Health(r *gin.RouterGroup) {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"version":  utils.GetVersion(),
			"base_url": c.GetString("BaseURL"),
		})
	})
}

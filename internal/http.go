package app

import (
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"

	"vpn-coordination-portal/internal/config"
	"vpn-coordination-portal/internal/portal"
	"vpn-coordination-portal/internal/routes"
	"vpn-coordination-portal/internal/storage"
	"vpn-coordination-portal/web"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func securityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("X-XSS-Protection", "1; mode=block")

	// Tokenized pages must never land in shared caches
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Next()
}

// requestID tags every request so log lines from one request can be pulled
// together.
func requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("RequestID", id)
	c.Header("X-Request-ID", id)
	c.Next()
}

// Middleware to check if the IP is allowed.
func IPAccessControl(allowedCIDRs []string) gin.HandlerFunc {
	var parsedCIDRs []*net.IPNet

	// Allow local networks in debug mode
	if os.Getenv("GIN_MODE") != "release" {
		localhostCIDRs := []string{"127.0.0.1/8", "::1/128"}
		allowedCIDRs = append(allowedCIDRs, localhostCIDRs...)
	}

	for _, cidr := range allowedCIDRs {
		_, net, err := net.ParseCIDR(cidr)
		if err != nil {
			slog.Warn("Invalid CIDR", "cidr", cidr)
			continue
		}
		slog.Debug("Allowed CIDR", "cidr", cidr)
		parsedCIDRs = append(parsedCIDRs, net)
	}

	return func(c *gin.Context) {
		clientIP := net.ParseIP(c.ClientIP())
		if clientIP == nil {
			// Should not happen
			slog.Warn("Invalid client IP", "ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		for _, cidr := range parsedCIDRs {
			if cidr.Contains(clientIP) {
				c.Next()
				return
			}
		}
		slog.Warn("IP not allowed", "ip", clientIP)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

// Every page is the layout wrapped around one content block.
var pageTemplates = []string{
	"index",
	"created",
	"side_form",
	"review",
	"agreed",
	"cancelled",
	"admin",
	"error",
}

func templateRenderer() multitemplate.Renderer {
	r := multitemplate.NewRenderer()
	for _, page := range pageTemplates {
		tmpl := template.Must(template.New("layout.html.tmpl").ParseFS(web.Templates,
			"templates/layout.html.tmpl",
			"templates/"+page+".html.tmpl",
		))
		r.Add(page, tmpl)
	}
	return r
}

func HTTPServer(cfg *config.Config, engine *portal.Engine) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.HTMLRender = templateRenderer()

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	r.Use(func(c *gin.Context) {
		c.Set("BaseURL", baseURL)
		c.Next()
	})
	r.Use(requestID)
	r.Use(securityHeaders)
	r.Use(routes.ErrorHandler())

	routes.Health(&r.RouterGroup)
	routes.RequestRoutes(&r.RouterGroup, engine)

	routes.SideFormRoutes(r.Group("/remote"), engine, storage.SideRemote)
	routes.SideFormRoutes(r.Group("/local"), engine, storage.SideLocal)
	routes.ReviewRoutes(r.Group("/agree"), engine)

	admin := r.Group("/admin")
	if cfg.AdminNetworks != "" {
		slog.Debug("Enabling IP access control", "admin_networks", cfg.AdminNetworks)
		var allowedCIDRs []string
		for _, cidr := range strings.Split(cfg.AdminNetworks, ",") {
			if cidr := strings.TrimSpace(cidr); cidr != "" {
				allowedCIDRs = append(allowedCIDRs, cidr)
			}
		}
		admin.Use(IPAccessControl(allowedCIDRs))
	}
	routes.AdminRoutes(admin, engine)

	return r
}

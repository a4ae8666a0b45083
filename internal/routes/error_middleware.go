package routes

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

type errorStruct struct {
	Succeed bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorHandler captures errors and returns a consistent error response
// with appropriate HTTP status codes based on the error type
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Process the request first

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			statusCode := GetErrorStatus(err)
			message := GetErrorMessage(err)

			if statusCode >= 500 {
				slog.Error("Request failed with server error",
					"error", err,
					"status", statusCode,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
			} else {
				slog.Warn("Request failed with client error",
					"error", err,
					"status", statusCode,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
			}

			if !c.Writer.Written() {
				// Browsers get the error page, API clients get JSON
				accept := c.GetHeader("Accept")
				if strings.Contains(accept, "application/json") {
					c.AbortWithStatusJSON(statusCode, errorStruct{
						Succeed: false,
						Status:  "error",
						Message: message,
					})
				} else {
					HTML(c, statusCode, "error", gin.H{"Message": message, "Code": statusCode})
					c.Abort()
				}
			}
		}
	}
}

// AbortWithError is a helper function to abort the request with an error
// and add it to the Gin error chain for the ErrorHandler middleware
func AbortWithError(c *gin.Context, err error) {
	statusCode := GetErrorStatus(err)
	c.Error(err)
	c.Abort()
	// Set the status code so gin knows not to send 200
	c.Status(statusCode)
}

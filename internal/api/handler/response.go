package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorResponse sends a JSON error response with {detail: message} format.
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"detail": message})
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	errorResponse(c, http.StatusNotFound, "not found: "+c.Request.URL.Path)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHome is the liveness probe.
func GetHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

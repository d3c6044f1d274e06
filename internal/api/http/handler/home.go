package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Home handles GET /home.
func Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Chat App API!"})
}

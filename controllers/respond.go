package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/ncerda/simulator-server/services"
)

// respondError maps a service error to its HTTP status. Every controller
// funnels service failures through here so the taxonomy stays in one place.
func respondError(c *gin.Context, err error) {
	c.JSON(services.StatusOf(err), gin.H{"message": err.Error()})
}

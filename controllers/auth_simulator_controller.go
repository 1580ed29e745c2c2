package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncerda/simulator-server/config"
	"github.com/ncerda/simulator-server/middleware"
	"github.com/ncerda/simulator-server/services"
	"github.com/ncerda/simulator-server/utils"
)

type signInSimulatorReq struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignInSimulator authenticates against a simulator's own password and hands
// back a token scoped to that simulator.
func SignInSimulator(c *gin.Context) {
	var req signInSimulatorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	sim, err := services.SignInSimulator(config.DB, req.ID, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(sim.ID, utils.SubjectSimulator, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                  sim.ID,
		"name":                sim.Name,
		"duration":            sim.Duration,
		"navigate":            sim.Navigate,
		"visibility":          sim.Visibility,
		"review":              sim.Review,
		"duration_review":     sim.DurationReview,
		"number_of_questions": sim.NumberOfQuestions,
		"token":               token,
	})
}

// GetSimulatorSession returns the signed simulator the session token is
// scoped to. This is the endpoint exam clients load their questions from.
func GetSimulatorSession(c *gin.Context) {
	v, ok := c.Get(middleware.CtxClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	claims := v.(*utils.JWTClaims)

	view, err := services.GetSimulator(config.DB, config.Blob, claims.SubjectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ncerda/simulator-server/config"
	"github.com/ncerda/simulator-server/services"
)

func CreateSimulator(c *gin.Context) {
	var req services.SimulatorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	sim, err := services.CreateSimulator(config.DB, req, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":                  sim.ID,
		"name":                sim.Name,
		"number_of_questions": sim.NumberOfQuestions,
	})
}

func UpdateSimulator(c *gin.Context) {
	id := c.Param("id")

	var req services.SimulatorUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	sim, err := services.UpdateSimulator(config.DB, id, req, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                  sim.ID,
		"number_of_questions": sim.NumberOfQuestions,
	})
}

func DeleteSimulator(c *gin.Context) {
	if err := services.DeleteSimulator(config.DB, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func GetSimulatorByID(c *gin.Context) {
	view, err := services.GetSimulator(config.DB, config.Blob, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func ListSimulators(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	count, _ := strconv.Atoi(c.DefaultQuery("count", "5"))

	p, views, err := services.ListSimulators(config.DB, config.Blob, page, count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":        p.Page,
		"count":       p.Count,
		"total":       p.Total,
		"total_pages": p.TotalPages,
		"data":        views,
	})
}

type resetSimulatorPasswordReq struct {
	NewPassword string `json:"newPassword" binding:"required"`
}

func ResetSimulatorPassword(c *gin.Context) {
	var req resetSimulatorPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	if err := services.ResetSimulatorPassword(config.DB, c.Param("id"), req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

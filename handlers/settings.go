package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
)

func GetSettings(c *gin.Context) {
	settings, err := models.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type updatePinRequest struct {
	OldPin string `json:"old_pin" binding:"required"`
	NewPin string `json:"new_pin" binding:"required"`
}

func UpdatePin(c *gin.Context) {
	var req updatePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := models.UpdatePin(c.Request.Context(), req.OldPin, req.NewPin); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type updateBusinessNameRequest struct {
	BusinessName string `json:"business_name" binding:"required"`
}

func UpdateBusinessName(c *gin.Context) {
	var req updateBusinessNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := models.UpdateBusinessName(c.Request.Context(), req.BusinessName); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
)

// SellFilled sells factory-filled containers: one request, paired rows in the
// container and raw-material ledgers.
func SellFilled(c *gin.Context) {
	var action models.SellFilledAction
	if err := c.ShouldBindJSON(&action); err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.ApplySellFilled(c.Request.Context(), &action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// Fill converts raw water into packed finished goods.
func Fill(c *gin.Context) {
	var action models.FillAction
	if err := c.ShouldBindJSON(&action); err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.ApplyFill(c.Request.Context(), &action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/backup"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/utils"
)

// respondError maps domain errors onto HTTP statuses. Insufficiency carries
// the live balance so the client can show the operator what is available.
func respondError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": utils.GetErrorMessages(validationErrors),
		})
		return
	}

	var insufficiency *models.InsufficiencyError
	if errors.As(err, &insufficiency) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     insufficiency.Error(),
			"required":  insufficiency.Required.String(),
			"available": insufficiency.Available.String(),
		})
		return
	}

	var formatErr *backup.SnapshotFormatError
	if errors.As(err, &formatErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": formatErr.Error()})
		return
	}

	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func respondBadRequest(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": utils.GetErrorMessages(validationErrors),
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

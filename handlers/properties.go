package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
)

func CreateProperty(c *gin.Context) {
	var input models.NewProperty
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	property, err := models.CreateProperty(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

func UpdateProperty(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	var input models.NewProperty
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	property, err := models.UpdateProperty(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func DeleteProperty(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	property, err := models.DeleteProperty(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func GetProperty(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	property, err := models.GetProperty(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func ListProperties(c *gin.Context) {
	from, to, err := dateRangeQuery(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	offset, limit := pageQuery(c)

	properties, err := models.ListProperties(c.Request.Context(), models.PropertyFilter{
		PlotName: c.Query("plot_name"),
		FromDate: from,
		ToDate:   to,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
)

func CreateContainerTransaction(c *gin.Context) {
	var input models.NewContainerTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.CreateContainerTransaction(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func UpdateContainerTransaction(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	var input models.NewContainerTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.UpdateContainerTransaction(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

// DeleteContainerTransaction also reverses the paired stock rows when the row
// was born from a cascade action.
func DeleteContainerTransaction(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.DeleteContainerTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func GetContainerTransaction(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.GetContainerTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func ListContainerTransactions(c *gin.Context) {
	from, to, err := dateRangeQuery(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	offset, limit := pageQuery(c)

	filter := models.ContainerTransactionFilter{
		ContainerType: models.ContainerType(c.Query("container_type")),
		FromDate:      from,
		ToDate:        to,
		Offset:        offset,
		Limit:         limit,
	}
	if raw := c.Query("warehouse_id"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			filter.WarehouseId = parsed
		}
	}

	txns, err := models.ListContainerTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": txns})
}

func GetContainerBalance(c *gin.Context) {
	containerType := models.ContainerType(c.Query("container_type"))
	warehouseId, err := strconv.Atoi(c.Query("warehouse_id"))
	if err != nil || !containerType.Valid() || warehouseId <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "container_type and warehouse_id are required"})
		return
	}

	balance, err := models.GetContainerBalance(c.Request.Context(), containerType, warehouseId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"container_type": containerType,
		"warehouse_id":   warehouseId,
		"balance":        balance.String(),
	})
}

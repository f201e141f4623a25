package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
)

func CreateStockTransaction(c *gin.Context) {
	var input models.NewStockTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.CreateStockTransaction(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func UpdateStockTransaction(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	var input models.NewStockTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.UpdateStockTransaction(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

// DeleteStockTransaction reverses the whole correlated pair when the row was
// born from a FILL or SELL_FILLED action.
func DeleteStockTransaction(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.DeleteStockTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func GetStockTransaction(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.GetStockTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func ListStockTransactions(c *gin.Context) {
	from, to, err := dateRangeQuery(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	offset, limit := pageQuery(c)

	txns, err := models.ListStockTransactions(c.Request.Context(), models.StockTransactionFilter{
		Category: models.StockCategory(c.Query("category")),
		FromDate: from,
		ToDate:   to,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": txns})
}

func GetStockBalance(c *gin.Context) {
	category := models.StockCategory(c.Query("category"))
	if !category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}
	balance, err := models.GetStockBalance(c.Request.Context(), category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "balance": balance.String()})
}

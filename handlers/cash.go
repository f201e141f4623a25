package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
)

func CreateCashTransaction(c *gin.Context) {
	var input models.NewCashTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.CreateCashTransaction(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func UpdateCashTransaction(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	var input models.NewCashTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.UpdateCashTransaction(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func DeleteCashTransaction(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.DeleteCashTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func GetCashTransaction(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	txn, err := models.GetCashTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func ListCashTransactions(c *gin.Context) {
	from, to, err := dateRangeQuery(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	offset, limit := pageQuery(c)

	txns, err := models.ListCashTransactions(c.Request.Context(), models.CashTransactionFilter{
		Account:  c.Query("account"),
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

func GetCashBalance(c *gin.Context) {
	account := c.Query("account")
	balance, err := models.GetCashBalance(c.Request.Context(), account)
	if err != nil {
		respondError(c, err)
		return
	}
	if account == "" {
		account = models.DefaultCashAccount
	}
	c.JSON(http.StatusOK, gin.H{"account": account, "balance": balance.String()})
}

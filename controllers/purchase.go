// controllers/purchase.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"garagepro-backend/services"
	"garagepro-backend/utils"
)

type PurchaseController struct {
	Purchases *services.PurchaseService
}

// CreatePurchase records an inbound stock purchase and replenishes
// inventory. Admin-only; see routes.SetupRouter.
func (pc *PurchaseController) CreatePurchase(c *gin.Context) {
	var input services.CreateReceiptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	receipt, err := pc.Purchases.CreateReceipt(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, receipt)
}

// GetPurchases lists receipts, optionally between ?from= and ?to=
// (RFC 3339), oldest first.
func (pc *PurchaseController) GetPurchases(c *gin.Context) {
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' date")
			return
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' date")
			return
		}
		to = &t
	}

	receipts, err := pc.Purchases.ListReceipts(from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipts)
}

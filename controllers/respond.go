package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"garagepro-backend/services"
	"garagepro-backend/store"
	"garagepro-backend/utils"
)

// respondServiceError translates the structured failures of the engine and
// the stores into HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAlreadyConverted):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInsufficientStock):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrCustomerNotFound),
		errors.Is(err, store.ErrVehicleNotFound),
		errors.Is(err, store.ErrPartNotFound),
		errors.Is(err, store.ErrServiceNotFound),
		errors.Is(err, store.ErrReceiptNotFound),
		errors.Is(err, store.ErrInvoiceNotFound),
		errors.Is(err, store.ErrUserNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal error")
	}
}

// controllers/vehicle.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"garagepro-backend/models"
	"garagepro-backend/store"
	"garagepro-backend/utils"
)

type VehicleController struct {
	Store store.Store
}

type CreateVehicleInput struct {
	Make         string `json:"make" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Year         int    `json:"year" binding:"min=0"`
	LicensePlate string `json:"licensePlate"`
	Color        string `json:"color"`
	VIN          string `json:"vin"`
	Mileage      int    `json:"mileage" binding:"min=0"`
}

// CreateVehicle registers a vehicle under an existing customer.
func (vc *VehicleController) CreateVehicle(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input CreateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	vehicle := models.Vehicle{
		CustomerID:   customerID,
		Make:         input.Make,
		Model:        input.Model,
		Year:         input.Year,
		LicensePlate: input.LicensePlate,
		Color:        input.Color,
		VIN:          input.VIN,
		Mileage:      input.Mileage,
	}
	if err := vc.Store.CreateVehicle(&vehicle); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

func (vc *VehicleController) GetVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID format")
		return
	}

	vehicle, err := vc.Store.GetVehicle(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (vc *VehicleController) GetCustomerVehicles(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	if _, err := vc.Store.GetCustomer(customerID); err != nil {
		respondServiceError(c, err)
		return
	}

	vehicles, err := vc.Store.ListVehiclesByCustomer(customerID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vehicles")
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

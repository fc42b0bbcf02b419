// controllers/part.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"garagepro-backend/models"
	"garagepro-backend/store"
	"garagepro-backend/utils"
)

type PartController struct {
	Store store.Store
}

type CreatePartInput struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"required,min=0"`
	Stock int     `json:"stock" binding:"min=0"`
	SKU   string  `json:"sku"`
}

type UpdatePartInput struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price" binding:"omitempty,min=0"`
	SKU   *string  `json:"sku"`
}

func (pc *PartController) CreatePart(c *gin.Context) {
	var input CreatePartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	part := models.Part{
		Name:  input.Name,
		Price: input.Price,
		Stock: input.Stock,
		SKU:   input.SKU,
	}
	if err := pc.Store.CreatePart(&part); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create part")
		return
	}

	c.JSON(http.StatusCreated, part)
}

// GetParts lists parts, optionally only those in stock
// (?available=true) and filtered by a name/SKU search term.
func (pc *PartController) GetParts(c *gin.Context) {
	filter := store.PartFilter{
		InStockOnly: c.Query("available") == "true",
		Search:      c.Query("search"),
	}
	parts, err := pc.Store.ListParts(filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve parts")
		return
	}
	c.JSON(http.StatusOK, parts)
}

func (pc *PartController) GetPart(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid part ID format")
		return
	}

	part, err := pc.Store.GetPart(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, part)
}

// UpdatePart changes descriptive fields. Stock is deliberately not
// updatable here; it only moves through services and purchase receipts.
func (pc *PartController) UpdatePart(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid part ID format")
		return
	}

	var input UpdatePartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	part, err := pc.Store.GetPart(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if input.Name != nil {
		part.Name = *input.Name
	}
	if input.Price != nil {
		part.Price = *input.Price
	}
	if input.SKU != nil {
		part.SKU = *input.SKU
	}

	if err := pc.Store.UpdatePart(part); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, part)
}

// controllers/service.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"garagepro-backend/services"
	"garagepro-backend/utils"
)

type ServiceController struct {
	Lifecycle *services.LifecycleService
}

// CreateService registers an estimation, or a work order directly when
// asWorkOrder is set. Stock is reserved for every resolvable part entry.
func (sc *ServiceController) CreateService(c *gin.Context) {
	var input services.CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svc, err := sc.Lifecycle.Create(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, svc)
}

// GetServices lists services filtered by ?type=estimation|workOrder,
// ?status= and ?search=.
func (sc *ServiceController) GetServices(c *gin.Context) {
	views, err := sc.Lifecycle.List(services.ListServicesFilter{
		Kind:   c.Query("type"),
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (sc *ServiceController) GetService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	view, err := sc.Lifecycle.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateService patches a service. A present parts list replaces the old
// one and reconciles stock; a present serviceTypes list replaces categories.
func (sc *ServiceController) UpdateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input services.UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svc, err := sc.Lifecycle.Update(id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, svc)
}

// ConvertToWorkOrder performs the one-way estimation to work-order
// transition. Converting twice yields 409.
func (sc *ServiceController) ConvertToWorkOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	workOrderID, err := sc.Lifecycle.ConvertToWorkOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workOrderId": workOrderID})
}

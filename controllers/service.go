package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpro-api/services"
	"salonpro-api/utils"
)

func (cc *CatalogController) CreateService(c *gin.Context) {
	var input services.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	service, err := cc.Catalog.CreateService(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, service, "Service created")
}

// GetServices lists all services, or only active ones with ?active=true.
func (cc *CatalogController) GetServices(c *gin.Context) {
	list, err := cc.Catalog.ListServices(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, list, "")
}

func (cc *CatalogController) GetService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	service, err := cc.Catalog.GetService(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, service, "")
}

func (cc *CatalogController) UpdateService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	service, err := cc.Catalog.UpdateService(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, service, "Service updated")
}

func (cc *CatalogController) DeleteService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := cc.Catalog.DeleteService(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, nil, "Service deleted successfully")
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpro-api/services"
	"salonpro-api/utils"
)

// CatalogController serves customers, services and therapists.
type CatalogController struct {
	Catalog *services.CatalogService
}

func (cc *CatalogController) CreateCustomer(c *gin.Context) {
	var input services.CustomerInput
	if !bindJSON(c, &input) {
		return
	}
	customer, err := cc.Catalog.CreateCustomer(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, customer, "Customer created")
}

// GetCustomers accepts an optional ?search= on name or phone.
func (cc *CatalogController) GetCustomers(c *gin.Context) {
	customers, err := cc.Catalog.ListCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, customers, "")
}

func (cc *CatalogController) GetCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	customer, err := cc.Catalog.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, customer, "")
}

func (cc *CatalogController) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.CustomerInput
	if !bindJSON(c, &input) {
		return
	}
	customer, err := cc.Catalog.UpdateCustomer(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, customer, "Customer updated")
}

func (cc *CatalogController) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := cc.Catalog.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, nil, "Customer deleted successfully")
}

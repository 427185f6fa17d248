package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpro-api/services"
	"salonpro-api/utils"
)

func (cc *CatalogController) CreateTherapist(c *gin.Context) {
	var input services.TherapistInput
	if !bindJSON(c, &input) {
		return
	}
	therapist, err := cc.Catalog.CreateTherapist(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, therapist, "Therapist created")
}

func (cc *CatalogController) GetTherapists(c *gin.Context) {
	list, err := cc.Catalog.ListTherapists(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, list, "")
}

func (cc *CatalogController) GetTherapist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	therapist, err := cc.Catalog.GetTherapist(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, therapist, "")
}

func (cc *CatalogController) UpdateTherapist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.TherapistInput
	if !bindJSON(c, &input) {
		return
	}
	therapist, err := cc.Catalog.UpdateTherapist(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, therapist, "Therapist updated")
}

func (cc *CatalogController) DeleteTherapist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := cc.Catalog.DeleteTherapist(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, nil, "Therapist deleted successfully")
}

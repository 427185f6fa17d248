package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpro-api/services"
	"salonpro-api/utils"
)

type TreatmentController struct {
	Treatments *services.TreatmentService
}

func (tc *TreatmentController) Create(c *gin.Context) {
	var input services.TreatmentInput
	if !bindJSON(c, &input) {
		return
	}

	treatment, err := tc.Treatments.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, treatment, "Treatment recorded")
}

// List handles GET /api/treatments?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (tc *TreatmentController) List(c *gin.Context) {
	treatments, err := tc.Treatments.List(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, treatments, "")
}

func (tc *TreatmentController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	treatment, err := tc.Treatments.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, treatment, "")
}

func (tc *TreatmentController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch services.TreatmentPatch
	if !bindJSON(c, &patch) {
		return
	}

	treatment, err := tc.Treatments.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, treatment, "Treatment updated")
}

func (tc *TreatmentController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := tc.Treatments.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, nil, "Treatment deleted successfully")
}

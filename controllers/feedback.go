package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpro-api/services"
	"salonpro-api/utils"
)

type FeedbackController struct {
	Feedback *services.FeedbackService
}

// Submit is the public customer feedback form.
func (fc *FeedbackController) Submit(c *gin.Context) {
	var input services.FeedbackInput
	if !bindJSON(c, &input) {
		return
	}

	feedback, err := fc.Feedback.Submit(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, feedback, "Thank you for your feedback")
}

func (fc *FeedbackController) List(c *gin.Context) {
	feedback, err := fc.Feedback.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, feedback, "")
}

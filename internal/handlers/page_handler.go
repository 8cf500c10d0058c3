package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-cases/internal/views"
)

var (
	bodyPartIDs = []string{
		"head", "neck", "chest", "abdomen", "back",
		"arm-left", "arm-right", "hand-left", "hand-right",
		"leg-left", "leg-right", "foot-left", "foot-right",
	}
	caseQuestions = []string{
		"How long have you had this problem?",
		"What makes it better or worse?",
		"Are you taking any medication for it?",
		"Is there anything else we should know?",
	}
	genders = []string{"male", "female", "other"}
)

func (h *Handler) Home(c *gin.Context) {
	render(c, http.StatusOK, views.Index, "Stevens Care", nil)
}

// Questions shows the symptom questionnaire. Anonymous visitors can read it
// but must sign in to submit.
func (h *Handler) Questions(c *gin.Context) {
	render(c, http.StatusOK, views.Questions, "Questions", gin.H{
		"bodyParts": bodyPartIDs,
		"questions": caseQuestions,
	})
}

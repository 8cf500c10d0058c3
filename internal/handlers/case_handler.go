package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-cases/internal/apperr"
	"github.com/harentsoaR/clinic-cases/internal/middleware"
	"github.com/harentsoaR/clinic-cases/internal/models"
	"github.com/harentsoaR/clinic-cases/internal/views"
)

// CreateCaseRequest is the questionnaire submission. Older clients send the
// free-text answers as question1..question4 instead of answers.
type CreateCaseRequest struct {
	BodyPartsIDs     []string   `json:"bodyPartsIds" form:"bodyPartsIds"`
	Description      string     `json:"description" form:"description"`
	PainRange        flexString `json:"painRange" form:"painRange"`
	Answers          []string   `json:"answers" form:"answers"`
	Question1        string     `json:"question1" form:"question1"`
	Question2        string     `json:"question2" form:"question2"`
	Question3        string     `json:"question3" form:"question3"`
	Question4        string     `json:"question4" form:"question4"`
	FirstTimeProblem flexString `json:"firstTimeProblem" form:"firstTimeProblem"`
}

func (r *CreateCaseRequest) submission() models.CaseSubmission {
	answers := r.Answers
	if len(answers) == 0 {
		answers = []string{r.Question1, r.Question2, r.Question3, r.Question4}
	}
	return models.CaseSubmission{
		BodyPartsIDs:     r.BodyPartsIDs,
		Description:      r.Description,
		PainRange:        string(r.PainRange),
		Answers:          answers,
		FirstTimeProblem: string(r.FirstTimeProblem),
	}
}

// CreateCase stores a new open case for the signed-in user.
func (h *Handler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	caseID, err := h.Cases.AddCase(c.Request.Context(), middleware.Current(c).User.ID, req.submission())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"caseId": caseID})
}

func (h *Handler) GetMyCases(c *gin.Context) {
	myCases, err := h.Cases.GetMyCases(c.Request.Context(), middleware.Current(c).User.ID)
	if err != nil {
		renderError(c, views.MyCases, "My Cases", err)
		return
	}
	render(c, http.StatusOK, views.MyCases, "My Cases", gin.H{"myCases": myCases})
}

// GetCase shows one of the signed-in user's cases. Another user's case is
// reported as missing.
func (h *Handler) GetCase(c *gin.Context) {
	detail, err := h.Cases.GetCaseByID(c.Request.Context(), c.Param("id"))
	if err == nil && detail.UserID != middleware.Current(c).User.ID {
		err = apperr.NotFound("case not found")
	}
	if err != nil {
		renderError(c, views.Case, "Case", err)
		return
	}
	render(c, http.StatusOK, views.Case, "Case", gin.H{"caseData": detail})
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-cases/internal/views"
)

const msgCaseClosed = "Case closed."

type CloseCaseRequest struct {
	CaseComment string `json:"caseComment" form:"caseComment"`
}

func (h *Handler) AdminLoginPage(c *gin.Context) {
	render(c, http.StatusOK, views.AdminLogin, "Login", nil)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	admin, err := h.Admins.CheckAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	sess := h.Sessions.Renew(c)
	sess.SetAdmin(admin)
	if err := h.Sessions.Save(c, sess); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, nil)
}

func (h *Handler) AdminLogout(c *gin.Context) {
	if err := h.Sessions.Destroy(c); err != nil {
		slog.Error("could not destroy session", "error", err)
	}
	c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) GetAllCases(c *gin.Context) {
	allCases, err := h.Cases.GetAllCases(c.Request.Context())
	if err != nil {
		renderError(c, views.AllCases, "All Cases", err)
		return
	}
	render(c, http.StatusOK, views.AllCases, "All Cases", gin.H{"allCases": allCases})
}

func (h *Handler) AdminGetCase(c *gin.Context) {
	flash := h.Sessions.TakeFlash(c)
	detail, err := h.Cases.GetCaseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		e := logged(c, err)
		render(c, e.Code, views.AdminCase, "Case", gin.H{"error": e.Message, "flash": flash})
		return
	}
	render(c, http.StatusOK, views.AdminCase, "Case", gin.H{
		"caseData": detail,
		"flash":    flash,
	})
}

// CloseCase closes the case with the staff comment and texts the patient.
// The outcome is shown as a flash on the case page either way.
func (h *Handler) CloseCase(c *gin.Context) {
	caseID := c.Param("id")
	ctx := c.Request.Context()

	var req CloseCaseRequest
	err := c.ShouldBind(&req)
	if err != nil {
		err = bindError(err)
	} else {
		err = h.Cases.CloseCase(ctx, req.CaseComment, caseID)
	}

	msg := msgCaseClosed
	if err != nil {
		msg = logged(c, err).Message
	} else if detail, err := h.Cases.GetCaseByID(ctx, caseID); err == nil {
		h.NotificationSvc.NotifyCaseClosed(detail)
	} else {
		slog.Error("could not load closed case for notification", "case", caseID, "error", err)
	}

	if err := h.Sessions.Flash(c, msg); err != nil {
		slog.Error("could not store close flash", "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/admin/case/"+caseID)
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-management-backend/app"
	"library-management-backend/models"
	"library-management-backend/workflow"
	"library-management-backend/ws"
)

type RequestController struct{ *Srv }

func NewRequestController(s *Srv) *RequestController { return &RequestController{Srv: s} }

// POST /api/requests
func (rc *RequestController) Submit(c *gin.Context) {
	var in struct {
		BookID        string  `json:"bookId" binding:"required"`
		Type          string  `json:"type" binding:"required,oneof=ISSUE RETURN"`
		TransactionID *string `json:"transactionId"`
		Notes         string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Type == models.RequestTypeReturn && (in.TransactionID == nil || *in.TransactionID == "") {
		c.JSON(http.StatusBadRequest, app.H{"error": "transactionId is required for RETURN requests"})
		return
	}

	req, err := rc.Flow.SubmitRequest(c.Request.Context(), workflow.SubmitRequestInput{
		UserID:        currentUserID(c),
		BookID:        in.BookID,
		Type:          in.Type,
		TransactionID: in.TransactionID,
		Notes:         in.Notes,
	})
	if err != nil {
		rc.fail(c, err)
		return
	}

	rc.Hub.BroadcastAdmins(ws.Event{Type: "request_submitted", Payload: req})
	c.JSON(http.StatusCreated, req)
}

// GET /api/admin/requests?status=
func (rc *RequestController) ListAdmin(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", models.RequestPending, models.RequestApproved, models.RequestRejected:
	default:
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid status"})
		return
	}
	reqs, err := rc.Repo.ListRequests(c.Request.Context(), status)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": reqs})
}

// GET /api/users/:id/requests
func (rc *RequestController) ListForUser(c *gin.Context) {
	userID := c.Param("id")
	if !canAccessUser(c, userID) {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}
	reqs, err := rc.Repo.ListUserRequests(c.Request.Context(), userID)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": reqs})
}

// POST /api/admin/requests/:id/approve
func (rc *RequestController) Approve(c *gin.Context) {
	req, err := rc.Flow.ApproveRequest(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		rc.fail(c, err)
		return
	}

	// notification dispatch stays out of the workflow core
	rc.Hub.NotifyUser(req.UserID, ws.Event{Type: "request_resolved", Payload: req})
	c.JSON(http.StatusOK, req)
}

// POST /api/admin/requests/:id/reject
func (rc *RequestController) Reject(c *gin.Context) {
	var in struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&in)

	req, err := rc.Flow.RejectRequest(c.Request.Context(), c.Param("id"), currentUserID(c), in.Notes)
	if err != nil {
		rc.fail(c, err)
		return
	}

	rc.Hub.NotifyUser(req.UserID, ws.Event{Type: "request_resolved", Payload: req})
	c.JSON(http.StatusOK, req)
}

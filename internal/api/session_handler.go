package api

import (
	"net/http"

	"staff-shift-service/internal/models"
	"staff-shift-service/internal/service"

	"github.com/gin-gonic/gin"
)

type sessionHandler struct {
	sessions *service.WorkingSessionService
}

func newSessionHandler(sessions *service.WorkingSessionService) *sessionHandler {
	return &sessionHandler{sessions: sessions}
}

type startSessionRequest struct {
	EmployeeID string           `json:"employee_id" binding:"required"`
	StoreID    string           `json:"store_id" binding:"required"`
	Location   *models.Location `json:"location"`
}

func (h *sessionHandler) start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.StartSession(c.Request.Context(), req.EmployeeID, req.StoreID, req.Location)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

type endSessionRequest struct {
	EmployeeID string           `json:"employee_id" binding:"required"`
	Location   *models.Location `json:"location"`
}

func (h *sessionHandler) end(c *gin.Context) {
	var req endSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.EndSession(c.Request.Context(), req.EmployeeID, req.Location)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

type addBreakRequest struct {
	EmployeeID   string `json:"employee_id" binding:"required"`
	BreakMinutes int64  `json:"break_minutes" binding:"required"`
}

func (h *sessionHandler) addBreak(c *gin.Context) {
	var req addBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.AddBreakTime(c.Request.Context(), req.EmployeeID, req.BreakMinutes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

type approvalRequest struct {
	ManagerID string `json:"manager_id" binding:"required"`
	Reason    string `json:"reason"`
}

func (h *sessionHandler) approve(c *gin.Context) {
	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.ApproveSession(c.Request.Context(), c.Param("id"), req.ManagerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *sessionHandler) reject(c *gin.Context) {
	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.RejectSession(c.Request.Context(), c.Param("id"), req.ManagerID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *sessionHandler) current(c *gin.Context) {
	session, err := h.sessions.GetCurrentSession(c.Request.Context(), c.Param("employeeId"))
	if err != nil {
		respondError(c, err)
		return
	}

	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *sessionHandler) listByEmployee(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	sessions, err := h.sessions.GetEmployeeSessions(c.Request.Context(), c.Param("employeeId"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *sessionHandler) report(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	report, err := h.sessions.GenerateHoursReport(c.Request.Context(), c.Param("employeeId"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *sessionHandler) listByStore(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	sessions, err := h.sessions.GetStoreSessions(c.Request.Context(), c.Param("storeId"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *sessionHandler) activeByStore(c *gin.Context) {
	sessions, err := h.sessions.GetActiveSessionsForStore(c.Request.Context(), c.Param("storeId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *sessionHandler) pendingByStore(c *gin.Context) {
	sessions, err := h.sessions.GetSessionsPendingApproval(c.Request.Context(), c.Param("storeId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

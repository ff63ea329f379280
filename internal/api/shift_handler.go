package api

import (
	"net/http"
	"time"

	"staff-shift-service/internal/models"
	"staff-shift-service/internal/service"

	"github.com/gin-gonic/gin"
)

type shiftHandler struct {
	shifts *service.ShiftService
}

func newShiftHandler(shifts *service.ShiftService) *shiftHandler {
	return &shiftHandler{shifts: shifts}
}

func (h *shiftHandler) create(c *gin.Context) {
	var shift models.Shift
	if err := c.ShouldBindJSON(&shift); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.shifts.CreateShift(c.Request.Context(), &shift)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *shiftHandler) get(c *gin.Context) {
	shift, err := h.shifts.GetShift(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shift)
}

func (h *shiftHandler) update(c *gin.Context) {
	var shift models.Shift
	if err := c.ShouldBindJSON(&shift); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	shift.ID = c.Param("id")

	updated, err := h.shifts.UpdateShift(c.Request.Context(), &shift)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *shiftHandler) cancel(c *gin.Context) {
	if err := h.shifts.CancelShift(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *shiftHandler) confirm(c *gin.Context) {
	shift, err := h.shifts.ConfirmShift(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shift)
}

func (h *shiftHandler) start(c *gin.Context) {
	shift, err := h.shifts.StartShift(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shift)
}

func (h *shiftHandler) complete(c *gin.Context) {
	shift, err := h.shifts.CompleteShift(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shift)
}

func (h *shiftHandler) listByEmployee(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	shifts, err := h.shifts.GetEmployeeShifts(c.Request.Context(), c.Param("employeeId"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shifts)
}

func (h *shiftHandler) listByStore(c *gin.Context) {
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	shifts, err := h.shifts.GetStoreShifts(c.Request.Context(), c.Param("storeId"), date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shifts)
}

func (h *shiftHandler) coverage(c *gin.Context) {
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	coverage, err := h.shifts.GetShiftCoverage(c.Request.Context(), c.Param("storeId"), date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, coverage)
}

func dateParam(c *gin.Context, name string) (time.Time, bool) {
	value, err := time.Parse("2006-01-02", c.Query(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing " + name + " parameter"})
		return time.Time{}, false
	}
	return value, true
}

func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, ok := dateParam(c, "from")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := dateParam(c, "to")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

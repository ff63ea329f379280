// Package api - тонкий HTTP-адаптер над сервисами. Бизнес-логики
// здесь нет, обработчики только разбирают запрос и отдают результат.
package api

import (
	"staff-shift-service/internal/service"

	"github.com/gin-gonic/gin"
)

func NewRouter(
	shiftService *service.ShiftService,
	sessionService *service.WorkingSessionService,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	shifts := newShiftHandler(shiftService)
	sessions := newSessionHandler(sessionService)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/shifts", shifts.create)
		v1.GET("/shifts/:id", shifts.get)
		v1.PUT("/shifts/:id", shifts.update)
		v1.POST("/shifts/:id/cancel", shifts.cancel)
		v1.POST("/shifts/:id/confirm", shifts.confirm)
		v1.POST("/shifts/:id/start", shifts.start)
		v1.POST("/shifts/:id/complete", shifts.complete)

		v1.GET("/employees/:employeeId/shifts", shifts.listByEmployee)
		v1.GET("/stores/:storeId/shifts", shifts.listByStore)
		v1.GET("/stores/:storeId/coverage", shifts.coverage)

		v1.POST("/sessions/start", sessions.start)
		v1.POST("/sessions/end", sessions.end)
		v1.POST("/sessions/break", sessions.addBreak)
		v1.POST("/sessions/:id/approve", sessions.approve)
		v1.POST("/sessions/:id/reject", sessions.reject)

		v1.GET("/employees/:employeeId/session", sessions.current)
		v1.GET("/employees/:employeeId/sessions", sessions.listByEmployee)
		v1.GET("/employees/:employeeId/report", sessions.report)
		v1.GET("/stores/:storeId/sessions", sessions.listByStore)
		v1.GET("/stores/:storeId/sessions/active", sessions.activeByStore)
		v1.GET("/stores/:storeId/sessions/pending", sessions.pendingByStore)
	}

	return router
}

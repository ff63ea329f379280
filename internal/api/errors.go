package api

import (
	"net/http"

	"staff-shift-service/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError отображает вид бизнес-ошибки в HTTP-статус
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindConflict:
		status = http.StatusConflict
	case apperrors.KindBusinessRule:
		status = http.StatusUnprocessableEntity
	case apperrors.KindState:
		status = http.StatusConflict
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

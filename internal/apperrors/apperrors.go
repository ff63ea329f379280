// Package apperrors содержит типизированные ошибки бизнес-слоя.
// Жёсткие нарушения правил возвращаются как ошибки соответствующего
// вида, мягкие аномалии фиксируются нарушениями на сессии.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindConflict     Kind = "CONFLICT"
	KindBusinessRule Kind = "BUSINESS_RULE_VIOLATION"
	KindState        Kind = "STATE_ERROR"
	KindNotFound     Kind = "NOT_FOUND"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать ошибки по виду через errors.Is
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Message == "" && other.Kind == e.Kind
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validationf - некорректные входные данные
func Validationf(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

// Conflictf - пересечение смен или сессий
func Conflictf(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

// BusinessRulef - нарушение бизнес-правила
func BusinessRulef(format string, args ...interface{}) *Error {
	return newf(KindBusinessRule, format, args...)
}

// Statef - операция недопустима в текущем статусе
func Statef(format string, args ...interface{}) *Error {
	return newf(KindState, format, args...)
}

// NotFoundf - сущность не найдена
func NotFoundf(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

// Wrap оборачивает причину, сохраняя вид ошибки
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf возвращает вид ошибки, пустую строку для нетипизированных
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind проверяет, относится ли ошибка к данному виду
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

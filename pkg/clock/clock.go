// Package clock абстрагирует текущее время, чтобы проверки окон и
// периодов отдыха были детерминированы в тестах.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// System возвращает часы на основе time.Now
func System() Clock {
	return systemClock{}
}

// Fixed - часы, всегда возвращающие заданный момент
type Fixed struct {
	Time time.Time
}

func (f *Fixed) Now() time.Time {
	return f.Time
}

// Set переводит фиксированные часы на новый момент
func (f *Fixed) Set(t time.Time) {
	f.Time = t
}

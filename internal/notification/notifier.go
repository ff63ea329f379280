// Package notification доставляет оповещения менеджерам и сотрудникам.
// Доставка выполняется по принципу fire-and-forget: сбои логируются и
// никогда не прерывают вызвавшую операцию.
package notification

import (
	"fmt"

	"staff-shift-service/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type Notifier interface {
	NotifyManager(storeID, message string)
	NotifyEmployee(employeeID, message string)
}

// LogNotifier пишет оповещения в лог
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier() *LogNotifier {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyManager(storeID, message string) {
	n.logger.WithFields(logrus.Fields{
		"store_id": storeID,
	}).Infof("MANAGER NOTIFICATION: %s", message)
}

func (n *LogNotifier) NotifyEmployee(employeeID, message string) {
	n.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
	}).Infof("EMPLOYEE NOTIFICATION: %s", message)
}

// TelegramNotifier шлёт оповещения менеджеров в общий чат
type TelegramNotifier struct {
	client        *telegram.Client
	managerChatID int64
	logger        *logrus.Logger
}

func NewTelegramNotifier(client *telegram.Client, managerChatID int64) *TelegramNotifier {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &TelegramNotifier{
		client:        client,
		managerChatID: managerChatID,
		logger:        logger,
	}
}

func (n *TelegramNotifier) NotifyManager(storeID, message string) {
	text := fmt.Sprintf("[store %s] %s", storeID, message)
	msg := tgbotapi.NewMessage(n.managerChatID, text)

	if _, err := n.client.Bot.Send(msg); err != nil {
		n.logger.WithError(err).WithField("store_id", storeID).
			Warn("Failed to send manager notification")
	}
}

func (n *TelegramNotifier) NotifyEmployee(employeeID, message string) {
	// Персональные чаты сотрудников не ведутся, оповещение уходит
	// в общий чат менеджеров
	text := fmt.Sprintf("[employee %s] %s", employeeID, message)
	msg := tgbotapi.NewMessage(n.managerChatID, text)

	if _, err := n.client.Bot.Send(msg); err != nil {
		n.logger.WithError(err).WithField("employee_id", employeeID).
			Warn("Failed to send employee notification")
	}
}

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
)

const notificationQueue = "notification_queue"

func (h *Handler) publishNotification(msg domain.NotificationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.notificationChannel.PublishWithContext(
		ctx,
		"",
		notificationQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// notifyAsync 用于状态转移后的通知，投递失败只记录日志，不影响已经提交的事务
func (h *Handler) notifyAsync(msg domain.NotificationMessage) {
	if err := h.publishNotification(msg); err != nil {
		slog.Error("通知投递失败", "type", msg.Type, "to", msg.To, "error", err)
	}
}

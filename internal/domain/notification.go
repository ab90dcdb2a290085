package domain

import (
	"fmt"
	"strings"
	"time"

	"webpush_demo/internal/model"
)

const (
	DefaultTitle = "Notificação Teste"
	DefaultBody  = "Esta é uma notificação de teste!"
	DefaultIcon  = "/icon-192x192.png"
	DefaultBadge = "/icon-72x72.png"
	DefaultURL   = "/"
)

const (
	MsgSubscribed     = "Subscription registrada com sucesso!"
	MsgUnsubscribed   = "Subscription removida com sucesso!"
	MsgNotFound       = "Subscription não encontrada"
	MsgNoRecipients   = "Nenhuma subscription registrada"
	MsgInternalError  = "Erro interno do servidor"
	MsgQueued         = "queued"
	MsgQueueDisabled  = "fila de envio não configurada"
	MsgInvalidJSON    = "invalid json"
	MsgEndpointNeeded = "endpoint is required"
)

// BuildPayload fills the fields the caller left blank with the defaults.
func BuildPayload(req model.BroadcastRequest, now time.Time) model.NotificationPayload {
	return model.NotificationPayload{
		Title:              orDefault(req.Title, DefaultTitle),
		Body:               orDefault(req.Body, DefaultBody),
		Icon:               orDefault(req.Icon, DefaultIcon),
		Badge:              DefaultBadge,
		URL:                orDefault(req.URL, DefaultURL),
		Timestamp:          now.UnixMilli(),
		RequireInteraction: true,
	}
}

func BroadcastSummary(succeeded, failed int) string {
	return fmt.Sprintf("Notificações enviadas: %d sucesso, %d falhas", succeeded, failed)
}

func ValidateSubscription(sub model.Subscription) error {
	return ValidateEndpoint(sub.Endpoint)
}

// ValidateEndpoint rejects an endpoint that is empty or only whitespace.
func ValidateEndpoint(endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return ErrInvalidSubscription
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

package reminders

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/pulsefin/pulse/internal/domain/push"
)

var (
	// ErrMissingVAPID — не настроены ключи подписи; запуск прерывается
	// до первой доставки.
	ErrMissingVAPID = errors.New("reminders: VAPID keys are not configured")

	// ErrEndpointGone — провайдер сообщил, что endpoint мёртв навсегда;
	// подписку надо удалить.
	ErrEndpointGone = errors.New("reminders: push endpoint gone")
)

// Sender — один исходящий вызов push-протокола.
// Классификация исхода: nil — успех; ErrEndpointGone — навсегда мёртвый
// endpoint; любая другая ошибка — временный сбой.
type Sender interface {
	Validate() error
	Send(ctx context.Context, sub push.Subscription, payload []byte) error
}

// WebPushSender подписывает и шлёт уведомления по протоколу Web Push (VAPID).
type WebPushSender struct {
	subject    string
	publicKey  string
	privateKey string
	ttl        int
	client     *http.Client
}

func NewWebPushSender(subject, publicKey, privateKey string, ttlSeconds int) *WebPushSender {
	if ttlSeconds <= 0 {
		ttlSeconds = 86400
	}
	return &WebPushSender{
		subject:    subject,
		publicKey:  publicKey,
		privateKey: privateKey,
		ttl:        ttlSeconds,
		client:     &http.Client{},
	}
}

func (s *WebPushSender) Validate() error {
	if s.publicKey == "" || s.privateKey == "" {
		return ErrMissingVAPID
	}
	return nil
}

func (s *WebPushSender) Send(ctx context.Context, sub push.Subscription, payload []byte) error {
	wsub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, wsub, &webpush.Options{
		Subscriber:      s.subject,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             s.ttl,
		HTTPClient:      s.client,
	})
	if err != nil {
		return fmt.Errorf("webpush send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("%w (status %d)", ErrEndpointGone, resp.StatusCode)
	default:
		return fmt.Errorf("webpush send: unexpected status %d", resp.StatusCode)
	}
}

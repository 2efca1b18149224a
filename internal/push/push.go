// Package push delivers Web Push notifications to stored subscriptions.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/storage"
)

// Payload is the notification content shown by the service worker.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// HTTPClient is the transport push requests go through.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Notifier sends a payload to every stored subscription. Endpoints that
// answer 404 or 410 are gone and get pruned; other delivery failures are
// logged and the subscription is kept.
type Notifier struct {
	client     HTTPClient
	subs       storage.SubscriptionStore
	publicKey  string
	privateKey string
	subject    string
	log        *slog.Logger
}

// New creates a Notifier sending on behalf of the given VAPID identity.
func New(client HTTPClient, subs storage.SubscriptionStore, publicKey, privateKey, subject string, log *slog.Logger) *Notifier {
	return &Notifier{
		client:     client,
		subs:       subs,
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    subject,
		log:        log,
	}
}

// PublicKey returns the VAPID public key browsers subscribe with.
func (n *Notifier) PublicKey() string {
	return n.publicKey
}

// Send delivers payload to all current subscriptions.
func (n *Notifier) Send(ctx context.Context, payload Payload) error {
	subs, err := n.subs.List(ctx)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	options := &webpush.Options{
		HTTPClient:      n.client,
		Subscriber:      n.subject,
		VAPIDPublicKey:  n.publicKey,
		VAPIDPrivateKey: n.privateKey,
		TTL:             3600,
	}

	for _, sub := range subs {
		target := &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}
		resp, err := webpush.SendNotificationWithContext(ctx, body, target, options)
		if err != nil {
			n.log.Error("send push", "endpoint", sub.Endpoint, "error", err)
			continue
		}
		statusCode := resp.StatusCode
		_ = resp.Body.Close()

		if statusCode == http.StatusNotFound || statusCode == http.StatusGone {
			if err := n.subs.Remove(ctx, sub.Endpoint); err != nil {
				n.log.Error("prune subscription", "endpoint", sub.Endpoint, "error", err)
			}
			continue
		}
		if statusCode >= 400 {
			n.log.Error("send push", "endpoint", sub.Endpoint, "status", statusCode)
		}
	}
	return nil
}

// Subscribe stores or refreshes a subscription.
func (n *Notifier) Subscribe(ctx context.Context, sub model.PushSubscription) error {
	if sub.Endpoint == "" {
		return fmt.Errorf("subscription has no endpoint")
	}
	return n.subs.Upsert(ctx, sub)
}

// Unsubscribe removes a subscription by endpoint.
func (n *Notifier) Unsubscribe(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("empty endpoint")
	}
	return n.subs.Remove(ctx, endpoint)
}

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Alert adalah satu peringatan kondisi farm yang dikirim ke webhook
// eksternal (Slack/Discord/bridge internal).
type Alert struct {
	Jenis     string  `json:"jenis"` // "mortalitas" | "utilisasi" | "stok_pakan" | "stok_vaksin"
	Status    string  `json:"status"`
	Subjek    string  `json:"subjek"` // nama kandang / pakan / vaksin
	Nilai     float64 `json:"nilai"`
	Pesan     string  `json:"pesan"`
	Timestamp string  `json:"timestamp"`
}

// Notifier mengirim kumpulan alert; implementasi no-op dipakai saat webhook
// tidak dikonfigurasi.
type Notifier interface {
	SendAlerts(ctx context.Context, alerts []Alert) error
}

// WebhookNotifier adalah implementasi berbasis resty yang mem-POST alert
// sebagai JSON ke satu URL webhook.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

func NewWebhookNotifier(webhookURL string, logger *zap.Logger) *WebhookNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2)

	return &WebhookNotifier{client: client, url: webhookURL, logger: logger}
}

func (n *WebhookNotifier) SendAlerts(ctx context.Context, alerts []Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"alerts": alerts}).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("kirim alert webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook menolak alert: status %d", resp.StatusCode())
	}

	n.logger.Info("alert terkirim",
		zap.Int("jumlah", len(alerts)),
		zap.Int("status", resp.StatusCode()))
	return nil
}

// NopNotifier dipakai saat ALERT_WEBHOOK_URL kosong.
type NopNotifier struct{}

func (NopNotifier) SendAlerts(context.Context, []Alert) error { return nil }

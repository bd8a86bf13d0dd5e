package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	webhookContentType = "text/plain;charset=utf-8"
	webhookDateLayout  = "02/01/2006 15:04"
)

type WebhookConfig struct {
	URL      string
	Timeout  time.Duration
	Location *time.Location
}

// SheetRecord is the flat row appended to the order spreadsheet. Field order is column order.
type SheetRecord struct {
	Date     string `json:"Date"`
	Customer string `json:"Nom Client"`
	Phone    string `json:"Téléphone"`
	Address  string `json:"Adresse"`
	City     string `json:"Ville"`
	Total    string `json:"Total (DH)"`
	Products string `json:"Produits"`
}

// Webhook posts each order to a spreadsheet web app. The endpoint answers opaquely,
// so only transport failures are reported; status and body are ignored.
type Webhook struct {
	url    string
	loc    *time.Location
	client *http.Client
	logger logger.ZapLogger
}

func NewWebhook(cfg WebhookConfig, log logger.ZapLogger) *Webhook {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Webhook{
		url: strings.TrimSpace(cfg.URL),
		loc: loc,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: log,
	}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Notify(ctx context.Context, order model.OrderDraft) error {
	if w.url == "" {
		w.logger.Warn("order webhook URL not configured, skipping", zap.String("order_id", order.ID))
		return nil
	}

	body, err := json.Marshal(NewSheetRecord(order, w.loc))
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", webhookContentType)

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func NewSheetRecord(order model.OrderDraft, loc *time.Location) SheetRecord {
	return SheetRecord{
		Date:     order.CreatedAt.In(loc).Format(webhookDateLayout),
		Customer: order.Customer.Name,
		Phone:    order.Customer.Phone,
		Address:  order.Customer.Address,
		City:     order.Customer.City,
		Total:    FormatTotal(order),
		Products: FormatProducts(order.Items),
	}
}

// FormatTotal renders "<subtotal>dh + <fee>dh", e.g. "50.00dh + 20.00dh".
func FormatTotal(order model.OrderDraft) string {
	return fmt.Sprintf("%sdh + %sdh", order.Subtotal.StringFixed(2), order.DeliveryFee.StringFixed(2))
}

// FormatProducts renders "name (xqty), ...".
func FormatProducts(lines []model.OrderLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s (x%d)", l.Name, l.Quantity))
	}
	return strings.Join(parts, ", ")
}

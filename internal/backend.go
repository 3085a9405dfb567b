package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"cafeboard/internal/model"
)

// ListOrdersParams mirrors the query parameters of the admin orders
// listing endpoint. Zero values are omitted from the request.
type ListOrdersParams struct {
	Filter string
	Range  string
	Date   string
	Search string
	Page   int
	Limit  int
}

type IBackend interface {
	LiveOrders(context.Context) ([]model.Order, error)
	ListOrders(context.Context, ListOrdersParams) (model.OrdersPage, error)
	GetDashboard(context.Context) (model.DashboardSummary, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
	SetOrderPaid(ctx context.Context, id int64) error
}

type BackendClient struct {
	client *http.Client
	url    string
	cafeID string
	token  string
	logger *zap.SugaredLogger
}

func NewBackendClient(cfg *Config, logger *zap.SugaredLogger) *BackendClient {
	warnIfTokenExpired(cfg.BackendToken, logger)
	return &BackendClient{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    cfg.BackendAPIURL,
		cafeID: cfg.CafeID,
		token:  cfg.BackendToken,
		logger: logger,
	}
}

// The live set is today's orders, capped the way the dashboard caps it.
func (b *BackendClient) LiveOrders(ctx context.Context) ([]model.Order, error) {
	page, err := b.ListOrders(ctx, ListOrdersParams{Range: "today", Limit: 50})
	if err != nil {
		return nil, err
	}
	return page.Orders, nil
}

func (b *BackendClient) ListOrders(ctx context.Context, p ListOrdersParams) (model.OrdersPage, error) {
	q := url.Values{}
	if p.Filter != "" {
		q.Set("filter", p.Filter)
	}
	if p.Range != "" {
		q.Set("range", p.Range)
	}
	if p.Date != "" {
		q.Set("date", p.Date)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}

	endpoint := b.url + "/orders/cafe/" + b.cafeID
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var page model.OrdersPage
	if err := b.getJSON(ctx, endpoint, &page); err != nil {
		return model.OrdersPage{}, err
	}
	return page, nil
}

func (b *BackendClient) GetDashboard(ctx context.Context) (model.DashboardSummary, error) {
	var summary model.DashboardSummary
	if err := b.getJSON(ctx, b.url+"/dashboard/"+b.cafeID+"/today", &summary); err != nil {
		return model.DashboardSummary{}, err
	}
	return summary, nil
}

func (b *BackendClient) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	endpoint := fmt.Sprintf("%s/order/%d/status", b.url, id)
	return b.patchJSON(ctx, endpoint, map[string]string{"status": status})
}

func (b *BackendClient) SetOrderPaid(ctx context.Context, id int64) error {
	endpoint := fmt.Sprintf("%s/order/%d/paid", b.url, id)
	return b.patchJSON(ctx, endpoint, map[string]bool{"paid": true})
}

func (b *BackendClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	body, err := b.do(req)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, out)
}

func (b *BackendClient) patchJSON(ctx context.Context, endpoint string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = b.do(req)
	return err
}

func (b *BackendClient) do(req *http.Request) ([]byte, error) {
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	res, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	var buf bytes.Buffer
	if _, err = io.Copy(&buf, res.Body); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, ErrTooManyRequests
	case res.StatusCode == http.StatusNotFound:
		return nil, ErrOrderNotFound
	case res.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d: %s", ErrBackendUnavailable, res.StatusCode, bodyMessage(buf.Bytes()))
	}

	return buf.Bytes(), nil
}

// bodyMessage pulls the backend's human-readable message out of an
// error body, falling back to the raw payload.
func bodyMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}

func warnIfTokenExpired(token string, logger *zap.SugaredLogger) {
	if token == "" {
		return
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		logger.Warnf("backend token is not a parseable JWT: %s", err.Error())
		return
	}

	if exp, ok := claims["exp"].(float64); ok && time.Now().After(time.Unix(int64(exp), 0)) {
		logger.Warnf("backend token expired at %s", time.Unix(int64(exp), 0).Format(time.RFC3339))
	}
}

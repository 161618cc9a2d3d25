package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-vendsync/internal/apperr"

	"github.com/sirupsen/logrus"
)

const (
	slotDetailsPath = "/api/apiIntegration/getMachineSlotDetails"
	salesPath       = "/api/apiIntegration/getSalesForMachine"

	defaultTimeout = 15 * time.Second
)

// Client pulls slot and sales data from the vending cloud API.
type Client interface {
	FetchSlotDetails(ctx context.Context, machineID int) (*SlotDetailsPayload, error)
	FetchSales(ctx context.Context, machineID int) (*SalesPayload, error)
}

// Config holds the upstream endpoint and the static credential.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *logrus.Logger
}

func NewClient(cfg Config, log *logrus.Logger) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// post issues the authenticated machine-scoped call and returns the raw body.
func (c *client) post(ctx context.Context, path string, machineID int) ([]byte, error) {
	reqBody, err := json.Marshal(map[string]int{"machineId": machineID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("authorization", c.token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"path":       path,
		"machine_id": machineID,
		"status":     resp.StatusCode,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Debug("upstream call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

func (c *client) FetchSlotDetails(ctx context.Context, machineID int) (*SlotDetailsPayload, error) {
	body, err := c.post(ctx, slotDetailsPath, machineID)
	if err != nil {
		return nil, apperr.Gateway("getMachineSlotDetails", err)
	}

	var payload SlotDetailsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperr.Gateway("getMachineSlotDetails", err)
	}
	return &payload, nil
}

func (c *client) FetchSales(ctx context.Context, machineID int) (*SalesPayload, error) {
	body, err := c.post(ctx, salesPath, machineID)
	if err != nil {
		return nil, apperr.Gateway("getSalesForMachine", err)
	}

	var payload SalesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperr.Gateway("getSalesForMachine", err)
	}
	if payload.Code != CodeSuccess {
		// Transport succeeded but the application refused; hand the raw
		// body up so the response can echo it.
		return nil, apperr.GatewayUpstream("getSalesForMachine", json.RawMessage(body))
	}
	return &payload, nil
}

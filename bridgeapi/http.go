package bridgeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"golunesbridge/types"
)

type HTTPClient struct {
	baseURL    string
	wsURL      string
	webhookURL string
	http       *http.Client
}

func NewHTTPClient(baseURL, wsURL, webhookURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		wsURL:      wsURL,
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: timeout},
	}
}

// wire shapes; the service speaks JSON over HTTP

type createTransactionRequest struct {
	SourceChain        int    `json:"sourceChain"`
	DestinationChain   int    `json:"destinationChain"`
	Amount             string `json:"amount"`
	Fee                string `json:"fee"`
	SourceAddress      string `json:"sourceAddress"`
	DestinationAddress string `json:"destinationAddress"`
	SourceSignature    string `json:"sourceSignature"`
}

type createTransactionResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
}

type transactionResponse struct {
	ID                 string `json:"id"`
	SourceChain        int    `json:"sourceChain"`
	DestinationChain   int    `json:"destinationChain"`
	Amount             string `json:"amount"`
	Fee                string `json:"fee"`
	SourceAddress      string `json:"sourceAddress"`
	DestinationAddress string `json:"destinationAddress"`
	Status             string `json:"status"`
	SourceSignature    string `json:"sourceSignature"`
	CreatedAt          int64  `json:"createdAt"`
	CompletedAt        int64  `json:"completedAt,omitempty"`
}

type healthResponse struct {
	Healthy bool `json:"healthy"`
}

type webhookEvent struct {
	EventID   string      `json:"eventId"`
	EventType string      `json:"eventType"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, req CreateRequest) (string, error) {
	body := createTransactionRequest{
		SourceChain:        int(req.SourceChain),
		DestinationChain:   int(req.DestChain),
		Amount:             req.Amount.String(),
		Fee:                req.Fee.String(),
		SourceAddress:      req.SourceAddress,
		DestinationAddress: req.DestAddress,
		SourceSignature:    req.SourceSignature,
	}

	var resp createTransactionResponse
	if err := c.postJSON(ctx, c.baseURL+"/transactions", body, &resp); err != nil {
		return "", err
	}
	if resp.TransactionID == "" {
		return "", types.NewBridgeError(types.ErrBadResponse, "bridge service allocated no transaction id")
	}
	return resp.TransactionID, nil
}

func (c *HTTPClient) GetTransaction(ctx context.Context, id string) (*types.BridgeTransaction, error) {
	var resp transactionResponse
	if err := c.getJSON(ctx, c.baseURL+"/transactions/"+id, &resp); err != nil {
		return nil, err
	}
	return decodeTransaction(&resp)
}

func (c *HTTPClient) GetHealth(ctx context.Context) (bool, error) {
	var resp healthResponse
	if err := c.getJSON(ctx, c.baseURL+"/health", &resp); err != nil {
		return false, err
	}
	return resp.Healthy, nil
}

func (c *HTTPClient) SendWebhookNotification(ctx context.Context, eventType string, payload interface{}) error {
	if c.webhookURL == "" {
		return nil
	}
	event := webhookEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
	return c.postJSON(ctx, c.webhookURL, event, nil)
}

// decodeTransaction converts a wire record into the typed model. Shape
// problems are reported as bad_response, distinct from transport failure.
func decodeTransaction(resp *transactionResponse) (*types.BridgeTransaction, error) {
	if resp.ID == "" {
		return nil, types.NewBridgeError(types.ErrBadResponse, "transaction record has no id")
	}

	status := types.TxStatus(resp.Status)
	if !status.Valid() {
		return nil, types.NewBridgeError(types.ErrBadResponse, fmt.Sprintf("unknown transaction status %q", resp.Status))
	}

	amount, err := decimal.NewFromString(resp.Amount)
	if err != nil {
		return nil, types.WrapBridgeError(types.ErrBadResponse, "transaction record has a malformed amount", err)
	}
	fee := decimal.Zero
	if resp.Fee != "" {
		fee, err = decimal.NewFromString(resp.Fee)
		if err != nil {
			return nil, types.WrapBridgeError(types.ErrBadResponse, "transaction record has a malformed fee", err)
		}
	}

	return &types.BridgeTransaction{
		ID:              resp.ID,
		SourceChain:     types.ChainType(resp.SourceChain),
		DestChain:       types.ChainType(resp.DestinationChain),
		Amount:          amount,
		Fee:             fee,
		SourceAddress:   resp.SourceAddress,
		DestAddress:     resp.DestinationAddress,
		Status:          status,
		SourceSignature: resp.SourceSignature,
		TsCreated:       resp.CreatedAt,
		TsCompleted:     resp.CompletedAt,
	}, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *HTTPClient) postJSON(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

func (c *HTTPClient) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("error bridge API %s %s: HTTP %d", req.Method, req.URL.Path, resp.StatusCode)
		return fmt.Errorf("bridge API returned HTTP %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return types.WrapBridgeError(types.ErrBadResponse, "cannot decode bridge API response", err)
	}
	return nil
}

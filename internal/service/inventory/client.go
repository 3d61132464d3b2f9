package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

// Client — HTTP-адаптер подсистемы центрального склада.
// Любая транспортная ошибка или неожиданный статус сводится к
// domain.ErrDownstreamUnavailable; наружу протекают только доменные ошибки.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Entry
}

// NewClient создаёт клиента склада с заданным базовым URL и таймаутом.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger.WithField("component", "inventory_client"),
	}
}

type allocationRequest struct {
	OrderID string           `json:"order_id"`
	Lines   []allocationLine `json:"lines"`
}

type allocationLine struct {
	VariantID string `json:"variant_id"`
	Qty       int32  `json:"qty"`
}

type shipmentRequest struct {
	OrderID  string         `json:"order_id"`
	DealerID string         `json:"dealer_id"`
	Lines    []shipmentLine `json:"lines"`
}

type shipmentLine struct {
	VariantID   string `json:"variant_id"`
	Qty         int32  `json:"qty"`
	ModelID     string `json:"model_id"`
	ModelName   string `json:"model_name"`
	VariantName string `json:"variant_name"`
}

type returnRequest struct {
	OrderID string `json:"order_id"`
}

// Allocate резервирует сток под заказ.
func (c *Client) Allocate(orderID string, lines []domain.AllocationLine) error {
	req := allocationRequest{OrderID: orderID, Lines: make([]allocationLine, 0, len(lines))}
	for _, line := range lines {
		req.Lines = append(req.Lines, allocationLine{VariantID: line.VariantID, Qty: line.Qty})
	}

	status, err := c.post("/api/v1/allocations", req)
	if err != nil {
		return err
	}

	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusConflict:
		return domain.ErrInsufficientStock
	default:
		c.logger.WithFields(log.Fields{"order_id": orderID, "status": status}).
			Warn("unexpected allocation response")
		return fmt.Errorf("%w: allocation returned status %d", domain.ErrDownstreamUnavailable, status)
	}
}

// Ship запускает физическую отгрузку зарезервированного стока дилеру.
func (c *Client) Ship(orderID, dealerID string, lines []domain.ShipmentLine) error {
	req := shipmentRequest{OrderID: orderID, DealerID: dealerID, Lines: make([]shipmentLine, 0, len(lines))}
	for _, line := range lines {
		req.Lines = append(req.Lines, shipmentLine{
			VariantID:   line.VariantID,
			Qty:         line.Qty,
			ModelID:     line.ModelID,
			ModelName:   line.ModelName,
			VariantName: line.VariantName,
		})
	}

	status, err := c.post("/api/v1/shipments", req)
	if err != nil {
		return err
	}

	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusConflict:
		return domain.ErrShipmentConflict
	default:
		c.logger.WithFields(log.Fields{"order_id": orderID, "status": status}).
			Warn("unexpected shipment response")
		return fmt.Errorf("%w: shipment returned status %d", domain.ErrDownstreamUnavailable, status)
	}
}

// ReturnStock возвращает сток заказа на центральный склад.
func (c *Client) ReturnStock(orderID string) error {
	status, err := c.post("/api/v1/returns", returnRequest{OrderID: orderID})
	if err != nil {
		return err
	}

	if status >= 200 && status < 300 {
		return nil
	}

	c.logger.WithFields(log.Fields{"order_id": orderID, "status": status}).
		Warn("unexpected stock return response")
	return fmt.Errorf("%w: stock return returned status %d", domain.ErrDownstreamUnavailable, status)
}

func (c *Client) post(path string, payload any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.httpc.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDownstreamUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	return resp.StatusCode, nil
}

var _ domain.InventoryClient = (*Client)(nil)

package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

// Client — HTTP-адаптер каталога моделей производителя.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Entry
}

// NewClient создаёт клиента каталога с заданным базовым URL и таймаутом.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger.WithField("component", "catalog_client"),
	}
}

type pricingResponse struct {
	VariantID  string `json:"variant_id"`
	PriceMinor int64  `json:"price_minor"`
}

type metadataResponse struct {
	VariantID   string `json:"variant_id"`
	ModelID     string `json:"model_id"`
	ModelName   string `json:"model_name"`
	VariantName string `json:"variant_name"`
}

// GetPricing возвращает цену комплектации в минимальных денежных единицах.
func (c *Client) GetPricing(variantID string) (int64, error) {
	var resp pricingResponse
	if err := c.get("/api/v1/variants/"+variantID+"/pricing", variantID, &resp); err != nil {
		return 0, err
	}
	return resp.PriceMinor, nil
}

// GetMetadata возвращает модель и комплектацию для обогащения отгрузки.
func (c *Client) GetMetadata(variantID string) (domain.VariantMetadata, error) {
	var resp metadataResponse
	if err := c.get("/api/v1/variants/"+variantID, variantID, &resp); err != nil {
		return domain.VariantMetadata{}, err
	}
	return domain.VariantMetadata{
		ModelID:     resp.ModelID,
		ModelName:   resp.ModelName,
		VariantName: resp.VariantName,
	}, nil
}

func (c *Client) get(path, variantID string, out any) error {
	resp, err := c.httpc.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDownstreamUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrVariantNotFound, variantID)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.WithFields(log.Fields{"variant_id": variantID, "status": resp.StatusCode}).
			Warn("unexpected catalog response")
		return fmt.Errorf("%w: catalog returned status %d", domain.ErrDownstreamUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode catalog response: %v", domain.ErrDownstreamUnavailable, err)
	}
	return nil
}

var _ domain.CatalogClient = (*Client)(nil)

package notification

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

// Client — HTTP-адаптер подсистемы уведомлений.
// Используется только для снятия отложенных уведомлений о споре,
// когда спор разрешён; вызов best-effort.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Entry
}

// NewClient создаёт клиента уведомлений.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger.WithField("component", "notification_client"),
	}
}

// DeletePendingByLink удаляет отложенные уведомления, привязанные к ссылке.
// 404 означает, что уведомлений уже нет; это не ошибка.
func (c *Client) DeletePendingByLink(link string) error {
	endpoint := c.baseURL + "/api/v1/notifications/pending?link=" + url.QueryEscape(link)

	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDownstreamUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return nil
	default:
		c.logger.WithFields(log.Fields{"link": link, "status": resp.StatusCode}).
			Warn("unexpected notification response")
		return fmt.Errorf("%w: notification service returned status %d", domain.ErrDownstreamUnavailable, resp.StatusCode)
	}
}

var _ domain.NotificationClient = (*Client)(nil)

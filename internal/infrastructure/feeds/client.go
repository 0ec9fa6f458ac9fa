package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hk-smart-transport/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	UserAgent = "HK Smart Transport/1.0"

	// maxBodyBytes - верхняя граница размера ответа фида
	maxBodyBytes = 64 << 20
)

type client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создает HTTP-клиент для открытых JSON-фидов.
// timeout - страховочный предел, основной дедлайн приходит через ctx.
func NewClient(timeout time.Duration, logger *zap.Logger) repository.FeedRepository {
	return &client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchJSON загружает и декодирует документ. Числа остаются json.Number.
func (c *client) FetchJSON(ctx context.Context, url string) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("Feed returned error",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("feed error: status %d", resp.StatusCode)
	}

	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	decoder.UseNumber()

	var doc interface{}
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	return doc, nil
}

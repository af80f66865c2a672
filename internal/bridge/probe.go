package bridge

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v5"
	"go.uber.org/zap"
)

// Probe проверяет доступность upstream при старте bridge.
// Идет мимо предохранителя: неудачный старт не должен открывать CB для живого трафика.
func (c *Client) Probe(ctx context.Context, attempts uint) error {
	if attempts == 0 {
		attempts = 1
	}
	target := c.baseURL + "/api/status"

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(attempts),
	)
	err := r.Do(func() error {
		status, _, err := c.roundTrip(ctx, MethodGet, target, nil)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("upstream status endpoint returned %d", status)
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("meeting server probe failed", zap.String("url", target), zap.Error(err))
		return err
	}
	c.logger.Info("meeting server is reachable", zap.String("url", target))
	return nil
}

package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/intelliconnect/insightd/internal/logging"
)

// Chain runs an ordered list of strategies and returns the first success.
// If every strategy fails, it returns the last failure's diagnostic so the
// caller sees the most specific error, not the first shallow one.
type Chain struct {
	format     Format
	strategies []Strategy
	logger     *logging.Logger
}

// NewChain creates a strategy chain for a format.
func NewChain(format Format, logger *logging.Logger, strategies ...Strategy) (*Chain, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("chain for %s needs at least one strategy", format)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Chain{format: format, strategies: strategies, logger: logger}, nil
}

// Run tries each strategy in order.
func (c *Chain) Run(ctx context.Context, doc Document) (Result, error) {
	var lastErr error

	for _, s := range c.strategies {
		res, err := s.Extract(doc)
		if err == nil {
			res.Format = c.format
			res.Method = s.Name
			res.Characters = len(res.Text)
			c.logger.Debug(ctx, "extraction strategy succeeded",
				zap.String("format", string(c.format)),
				zap.String("strategy", s.Name),
				zap.Int("characters", res.Characters),
			)
			return res, nil
		}

		lastErr = &Error{Format: c.format, Strategy: s.Name, Err: err}
		c.logger.Warn(ctx, "extraction strategy failed, trying next",
			zap.String("format", string(c.format)),
			zap.String("strategy", s.Name),
			zap.Error(err),
		)
	}

	return Result{Format: c.format}, lastErr
}

package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/target/doctrack-api/config"
	amqpadapter "github.com/target/doctrack-api/internal/adapters/amqp"
)

// ConnectEvents dials RabbitMQ and declares the document event exchange.
// It returns nil, nil when event publishing is disabled.
func ConnectEvents(cfg config.EventsConfig, logger *slog.Logger) (*amqpadapter.Publisher, error) {
	if !cfg.Enabled {
		return nil, nil //nolint:nilnil // disabled publisher is a valid outcome
	}
	pub, err := amqpadapter.Dial(cfg.AMQPURL, cfg.Exchange, logger)
	if err != nil {
		return nil, fmt.Errorf("connect events broker: %w", err)
	}
	if logger != nil {
		logger.Info("document events enabled", "exchange", cfg.Exchange)
	}
	return pub, nil
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/domain"
)

type checkoutEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCheckoutEventRepository creates a new checkout event repository
func NewCheckoutEventRepository(db *sql.DB, logger *zap.Logger) *checkoutEventRepository {
	return &checkoutEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *checkoutEventRepository) Create(ctx context.Context, event *domain.CheckoutEvent) error {
	query := `
		INSERT INTO checkout_events (id, session_id, event_type, event_data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	eventData, err := json.Marshal(event.EventData)
	if err != nil {
		r.logger.Error("Failed to marshal event data", zap.Error(err))
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.SessionID,
		event.EventType,
		eventData,
		event.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create checkout event", zap.Error(err))
		return err
	}

	return nil
}

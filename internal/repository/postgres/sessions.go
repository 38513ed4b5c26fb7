package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/pkg/errors"
)

type sessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB, logger *zap.Logger) *sessionRepository {
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sessionRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Session, error) {
	// Bcrypt hashes are salted, so a direct lookup by hash is impossible.
	// Iterate through active sessions and verify the key against each hash.
	query := `
		SELECT id, user_name, user_email, api_key_hash, is_active, created_at, updated_at
		FROM sessions
		WHERE is_active = true
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query sessions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var session domain.Session

		err := rows.Scan(
			&session.ID,
			&session.UserName,
			&session.UserEmail,
			&session.APIKeyHash,
			&session.IsActive,
			&session.CreatedAt,
			&session.UpdatedAt,
		)
		if err != nil {
			continue
		}

		if err := bcrypt.CompareHashAndPassword([]byte(session.APIKeyHash), []byte(apiKey)); err == nil {
			return &session, nil
		}
	}

	return nil, &errors.ErrUnauthorized{Message: "invalid session key"}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (id, user_name, user_email, api_key_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserName,
		session.UserEmail,
		session.APIKeyHash,
		session.IsActive,
		session.CreatedAt,
		session.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create session", zap.Error(err))
		return err
	}

	return nil
}

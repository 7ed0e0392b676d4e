package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"kiosk-order/models"
)

type DeviceRepository struct {
	db *pgxpool.Pool
}

func NewDeviceRepository(db *pgxpool.Pool) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, tenant_id, email, password, name, role, is_active, created_at
	          FROM users WHERE lower(email) = lower($1)`

	u := &models.User{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.TenantID, &u.Email, &u.Password, &u.Name, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select user")
	}
	return u, nil
}

func (r *DeviceRepository) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := r.db.QueryRow(ctx, `SELECT id, name, slug FROM tenants WHERE id = $1`, id).Scan(&t.ID, &t.Name, &t.Slug)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select tenant")
	}
	return t, nil
}

// CreateSession stores a new device session and fills in its id.
func (r *DeviceRepository) CreateSession(ctx context.Context, session *models.DeviceSession) error {
	session.ID = uuid.NewString()
	session.CreatedAt = time.Now()

	query := `
		INSERT INTO device_sessions (id, tenant_id, store_id, user_id, device_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		session.ID, session.TenantID, session.StoreID, session.UserID, session.DeviceName, session.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert device session")
	}
	return nil
}

func (r *DeviceRepository) RevokeSession(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE device_sessions SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`,
		time.Now(), sessionID)
	if err != nil {
		return errors.Wrap(err, "revoke device session")
	}
	return nil
}

// IsSessionActive reports whether the session exists and has not been revoked.
func (r *DeviceRepository) IsSessionActive(ctx context.Context, sessionID string) (bool, error) {
	var active bool
	err := r.db.QueryRow(ctx,
		`SELECT revoked_at IS NULL FROM device_sessions WHERE id = $1`, sessionID,
	).Scan(&active)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "select device session")
	}
	return active, nil
}

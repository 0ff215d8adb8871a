// Package postgres implements the device registry on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cartloop/go-push-service/pkg/dispatch"
	"github.com/cartloop/go-push-service/pkg/notification"
)

// DeviceStore implements dispatch.DeviceStore on a pgx connection pool.
//
// Expected schema:
//
//	CREATE TABLE device_tokens (
//	    id           UUID PRIMARY KEY,
//	    customer_id  TEXT NOT NULL,
//	    token        TEXT NOT NULL,
//	    platform     TEXT NOT NULL,
//	    app_version  TEXT,
//	    model        TEXT,
//	    os_version   TEXT,
//	    manufacturer TEXT,
//	    is_active    BOOLEAN NOT NULL DEFAULT TRUE,
//	    last_used_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    deleted_at   TIMESTAMPTZ,
//	    UNIQUE (customer_id, token)
//	);
type DeviceStore struct {
	pool *pgxpool.Pool
}

var _ dispatch.DeviceStore = (*DeviceStore)(nil)

func NewDeviceStore(pool *pgxpool.Pool) *DeviceStore { return &DeviceStore{pool: pool} }

const deviceColumns = `id, customer_id, token, platform, app_version, model, os_version, manufacturer,
       is_active, last_used_at, created_at, updated_at, deleted_at`

const (
	qRegister = `
INSERT INTO device_tokens (id, customer_id, token, platform, app_version, model, os_version, manufacturer)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (customer_id, token) DO UPDATE
SET platform     = EXCLUDED.platform,
    app_version  = EXCLUDED.app_version,
    model        = EXCLUDED.model,
    os_version   = EXCLUDED.os_version,
    manufacturer = EXCLUDED.manufacturer,
    is_active    = TRUE,
    deleted_at   = NULL,
    last_used_at = NOW(),
    updated_at   = NOW()
RETURNING ` + deviceColumns + `;`

	qGetByToken = `
SELECT ` + deviceColumns + `
FROM device_tokens
WHERE token = $1
ORDER BY updated_at DESC
LIMIT 1;`

	qListActiveByCustomer = `
SELECT ` + deviceColumns + `
FROM device_tokens
WHERE customer_id = $1 AND is_active = TRUE
ORDER BY created_at;`

	qDeactivateByToken = `
UPDATE device_tokens
SET is_active = FALSE, deleted_at = NOW(), updated_at = NOW()
WHERE token = $1 AND is_active = TRUE;`

	qDeactivateByCustomer = `
UPDATE device_tokens
SET is_active = FALSE, deleted_at = NOW(), updated_at = NOW()
WHERE customer_id = $1 AND is_active = TRUE;`

	qTouch = `
UPDATE device_tokens
SET last_used_at = NOW()
WHERE token = $1;`

	qCleanup = `
DELETE FROM device_tokens
WHERE is_active = FALSE
  AND deleted_at < NOW() - ($1 * INTERVAL '1 day');`

	qMarkInvalid = `
UPDATE device_tokens
SET is_active = FALSE, deleted_at = NOW(), updated_at = NOW()
WHERE token = ANY($1) AND is_active = TRUE;`
)

func scanDevice(row pgx.Row, d *notification.DeviceToken) error {
	var (
		appVersion, model, osVersion, manufacturer *string
	)
	if err := row.Scan(
		&d.ID,
		&d.CustomerID,
		&d.Token,
		&d.Platform,
		&appVersion,
		&model,
		&osVersion,
		&manufacturer,
		&d.IsActive,
		&d.LastUsedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dispatch.ErrDeviceNotFound
		}
		return fmt.Errorf("scan device: %w", err)
	}
	if appVersion != nil {
		d.AppVersion = *appVersion
	}
	if model != nil || osVersion != nil || manufacturer != nil {
		info := &notification.DeviceInfo{}
		if model != nil {
			info.Model = *model
		}
		if osVersion != nil {
			info.OSVersion = *osVersion
		}
		if manufacturer != nil {
			info.Manufacturer = *manufacturer
		}
		d.DeviceInfo = info
	}
	return nil
}

func deviceInfoColumns(info *notification.DeviceInfo) (model, osVersion, manufacturer *string) {
	if info == nil {
		return nil, nil, nil
	}
	if info.Model != "" {
		model = &info.Model
	}
	if info.OSVersion != "" {
		osVersion = &info.OSVersion
	}
	if info.Manufacturer != "" {
		manufacturer = &info.Manufacturer
	}
	return model, osVersion, manufacturer
}

func (s *DeviceStore) RegisterDevice(ctx context.Context, customerID string, reg notification.DeviceRegistration) (*notification.DeviceToken, error) {
	var appVersion *string
	if reg.AppVersion != "" {
		appVersion = &reg.AppVersion
	}
	model, osVersion, manufacturer := deviceInfoColumns(reg.DeviceInfo)

	row := s.pool.QueryRow(ctx, qRegister,
		uuid.NewString(), customerID, reg.Token, string(reg.Platform),
		appVersion, model, osVersion, manufacturer,
	)

	var d notification.DeviceToken
	if err := scanDevice(row, &d); err != nil {
		return nil, fmt.Errorf("register device: %w", err)
	}
	return &d, nil
}

func (s *DeviceStore) UpdateDevice(ctx context.Context, id string, upd notification.DeviceUpdate) (*notification.DeviceToken, error) {
	q := `
UPDATE device_tokens
SET token        = COALESCE($2, token),
    app_version  = COALESCE($3, app_version),
    model        = COALESCE($4, model),
    os_version   = COALESCE($5, os_version),
    manufacturer = COALESCE($6, manufacturer),
    is_active    = COALESCE($7, is_active),
    deleted_at   = CASE
                     WHEN $7 = FALSE THEN NOW()
                     WHEN $7 = TRUE THEN NULL
                     ELSE deleted_at
                   END,
    updated_at   = NOW()
WHERE id = $1
RETURNING ` + deviceColumns + `;`

	model, osVersion, manufacturer := deviceInfoColumns(upd.DeviceInfo)
	row := s.pool.QueryRow(ctx, q, id, upd.Token, upd.AppVersion, model, osVersion, manufacturer, upd.IsActive)

	var d notification.DeviceToken
	if err := scanDevice(row, &d); err != nil {
		if errors.Is(err, dispatch.ErrDeviceNotFound) {
			return nil, dispatch.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("update device: %w", err)
	}
	return &d, nil
}

func (s *DeviceStore) DeactivateDevice(ctx context.Context, token string) error {
	cmd, err := s.pool.Exec(ctx, qDeactivateByToken, token)
	if err != nil {
		return fmt.Errorf("deactivate device: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return dispatch.ErrDeviceNotFound
	}
	return nil
}

func (s *DeviceStore) DeactivateCustomerDevices(ctx context.Context, customerID string) (int, error) {
	cmd, err := s.pool.Exec(ctx, qDeactivateByCustomer, customerID)
	if err != nil {
		return 0, fmt.Errorf("deactivate customer devices: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

func (s *DeviceStore) GetCustomerDevices(ctx context.Context, customerID string) ([]notification.DeviceToken, error) {
	rows, err := s.pool.Query(ctx, qListActiveByCustomer, customerID)
	if err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}
	defer rows.Close()

	out := make([]notification.DeviceToken, 0)
	for rows.Next() {
		var d notification.DeviceToken
		if err := scanDevice(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *DeviceStore) GetDeviceByToken(ctx context.Context, token string) (*notification.DeviceToken, error) {
	var d notification.DeviceToken
	if err := scanDevice(s.pool.QueryRow(ctx, qGetByToken, token), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DeviceStore) TouchDevice(ctx context.Context, token string) error {
	cmd, err := s.pool.Exec(ctx, qTouch, token)
	if err != nil {
		return fmt.Errorf("touch device: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return dispatch.ErrDeviceNotFound
	}
	return nil
}

func (s *DeviceStore) CleanupInactiveTokens(ctx context.Context, daysThreshold int) (int, error) {
	cmd, err := s.pool.Exec(ctx, qCleanup, daysThreshold)
	if err != nil {
		return 0, fmt.Errorf("cleanup inactive tokens: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

func (s *DeviceStore) MarkTokensAsInvalid(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, qMarkInvalid, tokens); err != nil {
		return fmt.Errorf("mark tokens invalid: %w", err)
	}
	return nil
}

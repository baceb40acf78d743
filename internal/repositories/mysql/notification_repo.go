// internal/repositories/mysql/notification_repo.go
// Repo untuk notifikasi décideur (sumber awal store + sink alert worker)
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"drilling-dashboard/internal/services"
)

type NotificationRepo struct{ DB *sql.DB }

const notificationSchema = `
CREATE TABLE IF NOT EXISTS notifications (
	id          VARCHAR(64)  NOT NULL PRIMARY KEY,
	type        VARCHAR(16)  NOT NULL,
	category    VARCHAR(64)  NOT NULL,
	title       VARCHAR(255) NOT NULL,
	description TEXT         NOT NULL,
	well_id     VARCHAR(64)  NULL,
	created_at  DATETIME     NOT NULL,
	INDEX idx_notifications_well (well_id),
	INDEX idx_notifications_created (created_at)
)`

// EnsureSchema membuat tabel bila belum ada (dipakai worker & seeder).
func (r *NotificationRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, notificationSchema); err != nil {
		return fmt.Errorf("create notifications table: %w", err)
	}
	return nil
}

type NotificationFilter struct {
	WellID string
	Types  []string   // optional: IN (...)
	Since  *time.Time // inclusive
	Limit  int
}

// buildNotificationQuery merakit SELECT + args (dipisah agar bisa dites tanpa DB).
func buildNotificationQuery(f NotificationFilter) (string, []any) {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = 200
	}
	var sb strings.Builder
	var args []any

	sb.WriteString(`
		SELECT id, type, category, title, description, well_id, created_at
		FROM notifications
		WHERE 1=1`)

	if f.WellID != "" {
		sb.WriteString(` AND well_id = ?`)
		args = append(args, f.WellID)
	}
	if clause, in := inClause("type", f.Types); clause != "" {
		sb.WriteString(clause)
		args = append(args, in...)
	}
	if f.Since != nil {
		sb.WriteString(` AND created_at >= ?`)
		args = append(args, *f.Since)
	}
	sb.WriteString(` ORDER BY created_at DESC, id ASC LIMIT ?`)
	args = append(args, f.Limit)
	return sb.String(), args
}

func (r *NotificationRepo) Search(ctx context.Context, f NotificationFilter) ([]services.Notification, error) {
	q, args := buildNotificationQuery(f)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []services.Notification
	for rows.Next() {
		var (
			n      services.Notification
			typ    string
			wellID sql.NullString
		)
		if err := rows.Scan(&n.ID, &typ, &n.Category, &n.Title, &n.Description, &wellID, &n.Timestamp); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = services.NotificationType(typ)
		if wellID.Valid {
			n.WellID = wellID.String
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// LoadNotifications memenuhi services.NotificationSource.
func (r *NotificationRepo) LoadNotifications(ctx context.Context) ([]services.Notification, error) {
	return r.Search(ctx, NotificationFilter{})
}

// SaveNotification memenuhi services.NotificationSink; id duplikat → false.
func (r *NotificationRepo) SaveNotification(ctx context.Context, n services.Notification) (bool, error) {
	var wellID any
	if n.WellID != "" {
		wellID = n.WellID
	}
	res, err := r.DB.ExecContext(ctx, `
		INSERT IGNORE INTO notifications (id, type, category, title, description, well_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, string(n.Type), n.Category, n.Title, n.Description, wellID, n.Timestamp.UTC())
	if err != nil {
		return false, fmt.Errorf("insert notification %s: %w", n.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

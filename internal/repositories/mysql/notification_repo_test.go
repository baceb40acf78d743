package mysql

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInClause(t *testing.T) {
	clause, args := inClause[string]("type", nil)
	assert.Empty(t, clause)
	assert.Nil(t, args)

	clause, args = inClause("well_id", []string{"1"})
	assert.Equal(t, " AND well_id IN (?)", clause)
	assert.Equal(t, []any{"1"}, args)

	clause, args = inClause("type", []string{"critical", "warning", "info"})
	assert.Equal(t, " AND type IN (?,?,?)", clause)
	assert.Equal(t, []any{"critical", "warning", "info"}, args)
}

func TestBuildNotificationQueryDefaults(t *testing.T) {
	q, args := buildNotificationQuery(NotificationFilter{})
	assert.Contains(t, q, "FROM notifications")
	assert.NotContains(t, q, "well_id = ?")
	assert.True(t, strings.HasSuffix(q, "LIMIT ?"))
	assert.Equal(t, []any{200}, args)
}

func TestBuildNotificationQueryFilters(t *testing.T) {
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	q, args := buildNotificationQuery(NotificationFilter{
		WellID: "W-1",
		Types:  []string{"critical", "warning"},
		Since:  &since,
		Limit:  5000,
	})
	assert.Contains(t, q, "AND well_id = ?")
	assert.Contains(t, q, "AND type IN (?,?)")
	assert.Contains(t, q, "AND created_at >= ?")
	assert.Equal(t, []any{"W-1", "critical", "warning", since, 200}, args)
}

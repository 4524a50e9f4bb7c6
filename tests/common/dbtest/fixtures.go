//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const DefaultTenantKey = "default-tenant"

// DefaultTenantID looks up the tenant seeded by SeedReferenceData.
func DefaultTenantID(t *testing.T, db DBLike) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.QueryRow(context.Background(),
		"SELECT id FROM tenants WHERE tenant_key = $1", DefaultTenantKey).Scan(&id)
	require.NoError(t, err)
	return id
}

func CreateTestTenant(t *testing.T, db DBLike, tenantKey, timezone string) uuid.UUID {
	t.Helper()

	tenantID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		`INSERT INTO tenants (id, tenant_key, name, timezone) VALUES ($1, $2, $2, $3)
		 ON CONFLICT (tenant_key) DO NOTHING`,
		tenantID, tenantKey, timezone)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM tenants WHERE tenant_key = $1", tenantKey).Scan(&tenantID)
	}
	return tenantID
}

// CreateTestStore inserts a store with optional policy overrides; nil
// leaves the column NULL so reads fall through to the tenant default.
func CreateTestStore(t *testing.T, db DBLike, tenantID uuid.UUID, name string, advanceDays, cancelHours *int) uuid.UUID {
	t.Helper()

	storeID := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO stores (id, tenant_id, name, advance_booking_days, cancel_deadline_hours)
		 VALUES ($1, $2, $3, $4, $5)`,
		storeID, tenantID, name, advanceDays, cancelHours)
	require.NoError(t, err)
	return storeID
}

func CreateTestPractitioner(t *testing.T, db DBLike, tenantID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	practitionerID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO practitioners (id, tenant_id, name) VALUES ($1, $2, $3)",
		practitionerID, tenantID, name)
	require.NoError(t, err)
	return practitionerID
}

func CreateTestCustomer(t *testing.T, db DBLike, tenantID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	customerID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO customers (id, tenant_id, name, phone) VALUES ($1, $2, $3, '090-0000-0000')",
		customerID, tenantID, name)
	require.NoError(t, err)
	return customerID
}

func CreateTestMenuItem(t *testing.T, db DBLike, tenantID uuid.UUID, name string, price, durationMin int) uuid.UUID {
	t.Helper()

	menuID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO menu_items (id, tenant_id, name, price, duration_min) VALUES ($1, $2, $3, $4, $5)",
		menuID, tenantID, name, price, durationMin)
	require.NoError(t, err)
	return menuID
}

func CreateTestOptionItem(t *testing.T, db DBLike, tenantID uuid.UUID, name string, price, durationMin int) uuid.UUID {
	t.Helper()

	optionID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO option_items (id, tenant_id, name, price, duration_min) VALUES ($1, $2, $3, $4, $5)",
		optionID, tenantID, name, price, durationMin)
	require.NoError(t, err)
	return optionID
}

func UpdateMenuItemPrice(t *testing.T, db DBLike, menuID uuid.UUID, price int) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE menu_items SET price = $2, updated_at = now() WHERE id = $1", menuID, price)
	require.NoError(t, err)
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO tenants (tenant_key, name, timezone) VALUES
		    ('default-tenant', 'Default Tenant', 'Asia/Tokyo'),
		    ('other-tenant', 'Other Tenant', 'Asia/Tokyo')
		ON CONFLICT (tenant_key) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}

package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/testutil"
)

func TestGetHosting_DecodesResources(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	res, _ := json.Marshal(domain.HostingResources{Storage: "10 GB", Databases: 2, SSLIncluded: "Free"})
	now := time.Now()
	mock.ExpectQuery("FROM hosting_plans WHERE id").
		WithArgs("h-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "price_cents", "billing_cycle", "resources", "created_at", "updated_at"}).
			AddRow("h-1", "Starter", "", int64(9900), "monthly", res, now, now))

	p, err := NewPostgres(mock, nil).GetHosting(context.Background(), "h-1")
	require.NoError(t, err)
	assert.Equal(t, "10 GB", p.Resources.Storage)
	assert.Equal(t, 2, p.Resources.Databases)
	assert.Equal(t, domain.BillingMonthly, p.BillingCycle)
}

func TestDeleteAddon_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM addons").
		WithArgs("a-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = NewPostgres(mock, nil).DeleteAddon(context.Background(), "a-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_PlanLifecycle(t *testing.T) {
	pool := testutil.Postgres(t)
	ctx := context.Background()
	repo := NewPostgres(pool, nil)

	created, err := repo.CreateHosting(ctx, domain.HostingPlan{
		Name:         "Starter",
		PriceCents:   9900,
		BillingCycle: domain.BillingMonthly,
		Resources:    domain.HostingResources{Storage: "10 GB", SSLIncluded: "Free"},
	})
	require.NoError(t, err)

	_, err = repo.CreateHosting(ctx, domain.HostingPlan{Name: "Starter", BillingCycle: domain.BillingMonthly})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	created.PriceCents = 12900
	updated, err := repo.UpdateHosting(ctx, *created)
	require.NoError(t, err)
	assert.EqualValues(t, 12900, updated.PriceCents)

	upserted, err := repo.UpsertHosting(ctx, domain.HostingPlan{Name: "Starter", PriceCents: 100, BillingCycle: domain.BillingYearly})
	require.NoError(t, err)
	assert.Equal(t, created.ID, upserted.ID)

	list, err := repo.ListHosting(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.BillingYearly, list[0].BillingCycle)

	require.NoError(t, repo.DeleteHosting(ctx, created.ID))
	_, err = repo.GetHosting(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	wp, err := repo.CreateWordpress(ctx, domain.WordpressPlan{
		Name:         "WP Basic",
		PriceCents:   14900,
		BillingCycle: domain.BillingMonthly,
		Resources:    domain.WordpressResources{ControlPanel: "Direct Admin"},
	})
	require.NoError(t, err)
	got, err := repo.GetWordpress(ctx, wp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Direct Admin", got.Resources.ControlPanel)

	addon, err := repo.CreateAddon(ctx, domain.Addon{Name: "Backups", PriceCents: 2500, BillingCycle: domain.BillingOneTime, Type: domain.AddonBackup})
	require.NoError(t, err)
	addons, err := repo.ListAddons(ctx)
	require.NoError(t, err)
	require.Len(t, addons, 1)
	assert.Equal(t, addon.ID, addons[0].ID)
}

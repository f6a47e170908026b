package cart

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/testutil"
)

func TestPostgres_AddRemoveKeepsTotal(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Postgres(t)

	var userID string
	if err := pool.QueryRow(ctx, `
INSERT INTO users (name, email, password_hash) VALUES ('Cart User', 'cart@example.com', 'x')
RETURNING id::text`).Scan(&userID); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	repo := NewPostgres(pool)
	cart, err := repo.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if cart.TotalCents != 0 || len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}

	again, err := repo.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if again.ID != cart.ID {
		t.Fatalf("expected same cart id, got %s and %s", cart.ID, again.ID)
	}

	hostingID := "11111111-1111-1111-1111-111111111111"
	addonID := "22222222-2222-2222-2222-222222222222"
	if _, err := repo.AddItem(ctx, userID, domain.CartItem{ItemType: domain.ItemHosting, ItemID: hostingID, Name: "Starter", PriceCents: 9900, BillingCycle: domain.BillingMonthly}); err != nil {
		t.Fatalf("AddItem hosting: %v", err)
	}
	cart, err = repo.AddItem(ctx, userID, domain.CartItem{ItemType: domain.ItemAddon, ItemID: addonID, Name: "Backups", PriceCents: 2500, BillingCycle: domain.BillingOneTime})
	if err != nil {
		t.Fatalf("AddItem addon: %v", err)
	}
	if cart.TotalCents != 12400 || len(cart.Items) != 2 {
		t.Fatalf("unexpected cart after adds: %+v", cart)
	}
	if cart.TotalCents != domain.SumItems(cart.Items) {
		t.Fatalf("total %d does not match items", cart.TotalCents)
	}

	removed, cart, err := repo.RemoveItem(ctx, userID, hostingID)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(removed) != 1 || removed[0].ItemType != domain.ItemHosting {
		t.Fatalf("unexpected removed items: %+v", removed)
	}
	if cart.TotalCents != 2500 {
		t.Fatalf("expected total 2500, got %d", cart.TotalCents)
	}

	if _, _, err := repo.RemoveItem(ctx, userID, hostingID); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound removing twice, got %v", err)
	}

	if err := repo.Clear(ctx, userID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	cart, err = repo.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("GetOrCreate after clear: %v", err)
	}
	if cart.TotalCents != 0 || len(cart.Items) != 0 {
		t.Fatalf("expected cleared cart, got %+v", cart)
	}
}

func TestRemoveItem_NoCart(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id::text FROM carts").
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	repo := NewPostgres(mock)
	if _, _, err := repo.RemoveItem(context.Background(), "u-1", "item"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

package shopster

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shopster/domain"
	"github.com/vladislavdragonenkov/shopster/internal/storage/memory"
)

func TestFacadeEndToEndFlow(t *testing.T) {
	router := memory.NewRouter()
	tenantID := uuid.New()
	router.RegisterTenant(tenantID)

	shop := New(router)
	ctx := context.Background()

	customer, err := shop.Customers().Insert(ctx, tenantID, domain.Customer{
		Email:    "buyer@example.com",
		FullName: "Test Buyer",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, customer.ID)

	product, err := shop.Products().Insert(ctx, tenantID, domain.Product{
		Title: "Widget",
		Price: &domain.Price{Amount: 990, Currency: "EUR"},
	})
	require.NoError(t, err)

	basketID, err := shop.Baskets().Add(ctx, tenantID)
	require.NoError(t, err)
	require.NoError(t, shop.Baskets().AddProduct(ctx, tenantID, basketID, product.ID, 2))

	order, err := shop.Orders().CreateFromBasket(ctx, tenantID, basketID, "Delivery St. 1", "Billing St. 2")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusNew, order.Status)

	item, err := shop.Warehouse().GetByProductID(ctx, tenantID, product.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), item.Reserved)

	_, err = shop.Orders().UpdateStatus(ctx, tenantID, order.ID, domain.OrderStatusShipping)
	require.NoError(t, err)

	item, err = shop.Warehouse().GetByProductID(ctx, tenantID, product.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), item.Reserved)

	setting, err := shop.Settings().Insert(ctx, tenantID, domain.Setting{
		Title:    "default_currency",
		Datatype: "string",
		Value:    "EUR",
	})
	require.NoError(t, err)
	require.NotZero(t, setting.ID)
}

func TestFacadeIsolatesTenants(t *testing.T) {
	router := memory.NewRouter()
	firstTenant := uuid.New()
	secondTenant := uuid.New()
	router.RegisterTenant(firstTenant)
	router.RegisterTenant(secondTenant)

	shop := New(router)
	ctx := context.Background()

	_, err := shop.Products().Insert(ctx, firstTenant, domain.Product{Title: "only first"})
	require.NoError(t, err)

	firstProducts, err := shop.Products().GetAll(ctx, firstTenant)
	require.NoError(t, err)
	secondProducts, err := shop.Products().GetAll(ctx, secondTenant)
	require.NoError(t, err)

	require.Len(t, firstProducts, 1)
	require.Empty(t, secondProducts)
}

func TestRegisterDefaultTenantUnsupportedRouter(t *testing.T) {
	shop := New(memory.NewRouter())

	_, err := shop.RegisterDefaultTenant(context.Background(), "postgres://localhost/bootstrap")
	require.Error(t, err)
}

package checkout_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func TestSweeperPrunesStrandedCreatingOrders(t *testing.T) {
	orders := memory.NewOrderRepository(nil, nil)

	// Прерванная сборка оставляет заголовок в creating.
	orders.FailBeforeFlip = errors.New("simulated crash")
	_, err := orders.PlaceOrder(domain.Order{
		OwnerID:       "user-1",
		TotalAmount:   300,
		PaymentMethod: domain.PaymentMethodCOD,
		Items:         []domain.OrderItem{{ProductName: "Tee", UnitPrice: 300, Quantity: 1}},
	}, domain.OutboxMessage{})
	require.Error(t, err)
	orders.FailBeforeFlip = nil

	completed, err := orders.PlaceOrder(domain.Order{
		OwnerID:       "user-1",
		TotalAmount:   300,
		PaymentMethod: domain.PaymentMethodCOD,
		Items:         []domain.OrderItem{{ProductName: "Tee", UnitPrice: 300, Quantity: 1}},
	}, domain.OutboxMessage{})
	require.NoError(t, err)

	sweeper := checkout.NewSweeper(orders,
		checkout.WithStaleAfter(time.Nanosecond),
		checkout.WithSweepBatchSize(10),
	)

	time.Sleep(5 * time.Millisecond)
	sweeper.SweepOnce(context.Background())

	visible, err := orders.ListByOwner("user-1")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, completed.ID, visible[0].ID)
}

func TestSweeperRunStopsOnContextCancel(t *testing.T) {
	orders := memory.NewOrderRepository(nil, nil)
	sweeper := checkout.NewSweeper(orders,
		checkout.WithSweepInterval(5*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sweeper.Run(ctx)
	}()

	time.Sleep(15 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}
}

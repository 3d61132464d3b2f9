package integration

import (
	"context"
	"sync"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/catalog"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/inventory"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/lifecycle"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/notification"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/outbox"
	"github.com/vladislavdragonenkov/dealer-oms/internal/storage/memory"
)

// capturingPublisher собирает опубликованные события в порядке публикации.
type capturingPublisher struct {
	mu     sync.Mutex
	events []domain.OutboxMessage
}

func (p *capturingPublisher) Publish(event domain.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.EventType)
	}
	return types
}

// OrderLifecycleTestSuite проверяет полный жизненный цикл заказа вместе
// с relay-воркером transactional outbox.
type OrderLifecycleTestSuite struct {
	suite.Suite
	store         *memory.Store
	inventory     *inventory.MockService
	catalog       *catalog.MockService
	notifications *notification.MockService
	orchestrator  lifecycle.Orchestrator
	publisher     *capturingPublisher
	worker        *outbox.Worker
}

func (suite *OrderLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel)
	logger := baseLogger.WithField("component", "integration-test")

	suite.store = memory.NewStore()
	suite.inventory = inventory.NewMockService()
	suite.catalog = catalog.NewMockService()
	suite.catalog.Prices["sedan-base"] = 2_500_000
	suite.catalog.Prices["suv-premium"] = 4_200_000
	suite.catalog.Metadata["sedan-base"] = domain.VariantMetadata{
		ModelID:     "m-sedan",
		ModelName:   "Strada",
		VariantName: "Base",
	}
	suite.catalog.Metadata["suv-premium"] = domain.VariantMetadata{
		ModelID:     "m-suv",
		ModelName:   "Terra",
		VariantName: "Premium",
	}
	suite.notifications = notification.NewMockService()

	suite.orchestrator = lifecycle.NewOrchestratorWithoutMetrics(
		suite.store,
		suite.inventory,
		suite.catalog,
		suite.notifications,
		logger,
	)

	suite.publisher = &capturingPublisher{}
	suite.worker = outbox.NewWorker(suite.store, suite.publisher, outbox.WithLogger(logger))
}

func (suite *OrderLifecycleTestSuite) TestSuccessfulOrderLifecycle() {
	t := suite.T()

	order, err := suite.orchestrator.Create("dealer-7", "dealer-7", []lifecycle.NewItem{
		{VariantID: "sedan-base", Qty: 3},
		{VariantID: "suv-premium", Qty: 1, DiscountPercent: 5},
	})
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, order.Status)
	// 3*2_500_000 + 4_200_000*95/100
	require.Equal(t, int64(3*2_500_000+4_200_000*95/100), order.TotalMinor)

	order, err = suite.orchestrator.Approve(order.ID, "staff-1")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusConfirmed, order.Status)

	order, err = suite.orchestrator.Ship(order.ID, "staff-1", lifecycle.Shipment{
		Carrier:   "AutoTrans",
		Reference: "TRK-100",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusInTransit, order.Status)
	require.Len(t, suite.inventory.LastShipLines, 2)
	require.Equal(t, "Strada", suite.inventory.LastShipLines[0].ModelName)

	order, err = suite.orchestrator.ConfirmDelivery(order.ID, "dealer-7")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusDelivered, order.Status)
	require.NotNil(t, order.DeliveryDate)

	require.Equal(t, 1, suite.inventory.AllocateCalls)
	require.Equal(t, 1, suite.inventory.ShipCalls)
	require.Equal(t, 0, suite.inventory.ReturnStockCalls)

	entries, err := suite.store.List(order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	// Relay публикует события в порядке создания.
	suite.worker.ProcessOnce(context.Background())
	require.Equal(t, []string{
		domain.EventTypeOrderPlaced,
		domain.EventTypeOrderConfirmed,
		domain.EventTypeOrderShipped,
		domain.EventTypeOrderDelivered,
	}, suite.publisher.types())

	// Повторный прогон ничего не публикует: всё уже в SENT.
	suite.worker.ProcessOnce(context.Background())
	require.Len(t, suite.publisher.types(), 4)
}

func (suite *OrderLifecycleTestSuite) TestDisputeReturnLifecycle() {
	t := suite.T()

	order, err := suite.orchestrator.Create("dealer-7", "dealer-7", []lifecycle.NewItem{
		{VariantID: "sedan-base", Qty: 1},
	})
	require.NoError(t, err)

	_, err = suite.orchestrator.Approve(order.ID, "staff-1")
	require.NoError(t, err)
	_, err = suite.orchestrator.Ship(order.ID, "staff-1", lifecycle.Shipment{Carrier: "AutoTrans"})
	require.NoError(t, err)

	order, err = suite.orchestrator.ReportIssue(order.ID, "dealer-7", "paint damage on delivery")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusDisputed, order.Status)

	order, err = suite.orchestrator.ResolveDispute(order.ID, "staff-2", domain.OrderStatusReturnedToCentral, "damage confirmed")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusReturnedToCentral, order.Status)
	require.Equal(t, 1, suite.inventory.ReturnStockCalls)
	require.Equal(t, []string{"/orders/" + order.ID}, suite.notifications.DeletedLinks)

	suite.worker.ProcessOnce(context.Background())
	types := suite.publisher.types()
	require.Len(t, types, 5)
	require.Equal(t, domain.EventTypeOrderIssueReported, types[3])
	require.Equal(t, domain.EventTypeOrderDisputeResolved, types[4])
}

func (suite *OrderLifecycleTestSuite) TestCancelAndHardDelete() {
	t := suite.T()

	order, err := suite.orchestrator.Create("dealer-7", "dealer-7", []lifecycle.NewItem{
		{VariantID: "sedan-base", Qty: 2},
	})
	require.NoError(t, err)

	_, err = suite.orchestrator.Cancel(order.ID, "dealer-7", domain.RoleDealer)
	require.NoError(t, err)

	require.NoError(t, suite.orchestrator.DeleteCancelled(order.ID))

	_, err = suite.store.Get(order.ID)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	// Трекинг переживает жёсткое удаление.
	entries, err := suite.store.List(order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestOrderLifecycleSuite(t *testing.T) {
	suite.Run(t, new(OrderLifecycleTestSuite))
}

package lifecycle

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
	"github.com/vladislavdragonenkov/dealer-oms/internal/metrics"
)

// NewItem — позиция запроса на создание заказа. Цена подтягивается из
// каталога, дилер задаёт только комплектацию, количество и скидку.
type NewItem struct {
	VariantID       string
	Qty             int32
	DiscountPercent int32
}

// Shipment — параметры отгрузки, передаваемые персоналом.
type Shipment struct {
	Carrier   string
	Reference string
	Notes     string
}

// Orchestrator управляет жизненным циклом оптового заказа.
//
// Каждая операция синхронна: загружает агрегат, проверяет статус и владение,
// при необходимости вызывает внешний сервис и только после его успеха
// фиксирует локальную запись одним атомарным бандлом
// (заказ + запись трекинга + outbox-событие).
type Orchestrator interface {
	Create(dealerID, actor string, items []NewItem) (domain.Order, error)
	Approve(orderID, actor string) (domain.Order, error)
	Ship(orderID, actor string, shipment Shipment) (domain.Order, error)
	ConfirmDelivery(orderID, dealerID string) (domain.Order, error)
	ReportIssue(orderID, dealerID, reason string) (domain.Order, error)
	Cancel(orderID, actor string, role domain.ActorRole) (domain.Order, error)
	ResolveDispute(orderID, actor string, outcome domain.OrderStatus, notes string) (domain.Order, error)
	DeleteCancelled(orderID string) error
}

type orchestrator struct {
	orders        domain.OrderRepository
	inventory     domain.InventoryClient
	catalog       domain.CatalogClient
	notifications domain.NotificationClient
	logger        *log.Entry
	metrics       *metrics.LifecycleMetrics
}

// NewOrchestrator создаёт рабочий экземпляр оркестратора.
func NewOrchestrator(
	orders domain.OrderRepository,
	inventory domain.InventoryClient,
	catalog domain.CatalogClient,
	notifications domain.NotificationClient,
	logger *log.Entry,
) Orchestrator {
	if logger == nil {
		logger = log.New().WithField("component", "lifecycle")
	}
	return &orchestrator{
		orders:        orders,
		inventory:     inventory,
		catalog:       catalog,
		notifications: notifications,
		logger:        logger,
		metrics:       metrics.NewLifecycleMetrics(),
	}
}

// NewOrchestratorWithoutMetrics создаёт оркестратор без метрик (для тестов).
func NewOrchestratorWithoutMetrics(
	orders domain.OrderRepository,
	inventory domain.InventoryClient,
	catalog domain.CatalogClient,
	notifications domain.NotificationClient,
	logger *log.Entry,
) Orchestrator {
	if logger == nil {
		logger = log.New().WithField("component", "lifecycle")
	}
	return &orchestrator{
		orders:        orders,
		inventory:     inventory,
		catalog:       catalog,
		notifications: notifications,
		logger:        logger,
	}
}

// Create создаёт заказ в статусе PENDING.
// Цены всех позиций резолвятся через каталог до записи; любая неудача
// отменяет операцию целиком, частичный заказ не сохраняется.
func (o *orchestrator) Create(dealerID, actor string, items []NewItem) (domain.Order, error) {
	start := time.Now()
	defer o.observeDuration("create", start)

	if dealerID == "" {
		return domain.Order{}, o.fail(domain.ErrDealerRequired)
	}
	if actor == "" {
		return domain.Order{}, o.fail(domain.ErrActorRequired)
	}
	if len(items) == 0 {
		return domain.Order{}, o.fail(domain.ErrItemsRequired)
	}

	now := time.Now().UTC()
	orderItems := make([]domain.OrderItem, 0, len(items))
	var total int64

	for _, item := range items {
		if item.VariantID == "" {
			return domain.Order{}, o.fail(domain.ErrItemVariantRequired)
		}
		if item.Qty <= 0 {
			return domain.Order{}, o.fail(domain.ErrItemQtyInvalid)
		}
		if item.DiscountPercent < 0 || item.DiscountPercent > 100 {
			return domain.Order{}, o.fail(domain.ErrItemDiscountInvalid)
		}

		price, err := o.catalog.GetPricing(item.VariantID)
		if err != nil {
			o.logger.WithError(err).WithField("variant_id", item.VariantID).Warn("pricing lookup failed")
			return domain.Order{}, o.fail(err)
		}

		final := domain.ComputeFinalPriceMinor(price, item.Qty, item.DiscountPercent)
		orderItems = append(orderItems, domain.OrderItem{
			ID:              uuid.NewString(),
			VariantID:       item.VariantID,
			Qty:             item.Qty,
			UnitPriceMinor:  price,
			DiscountPercent: item.DiscountPercent,
			FinalPriceMinor: final,
			CreatedAt:       now,
		})
		total += final
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		DealerID:      dealerID,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
		TotalMinor:    total,
		Items:         orderItems,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	entry := domain.TrackingEntry{
		OrderID:  order.ID,
		Status:   domain.OrderStatusPending,
		Notes:    "order placed by dealer",
		Actor:    actor,
		Occurred: now,
	}

	event, err := o.buildEvent(order.ID, domain.EventTypeOrderPlaced, domain.OrderPlacedEvent{
		OrderID:     order.ID,
		DealerID:    dealerID,
		TotalAmount: total,
		OrderDate:   now,
		PlacedBy:    actor,
	})
	if err != nil {
		return domain.Order{}, err
	}

	if err := o.orders.Create(order, entry, event); err != nil {
		o.logger.WithError(err).WithField("order_id", order.ID).Error("failed to persist order")
		return domain.Order{}, o.fail(err)
	}

	o.recordCommit(order.Status)
	o.logger.WithFields(log.Fields{
		"order_id":  order.ID,
		"dealer_id": dealerID,
		"total":     total,
	}).Info("order placed")
	return order, nil
}

// Approve подтверждает заказ: резервирует сток на центральном складе и
// только после успеха склада переводит заказ в CONFIRMED.
func (o *orchestrator) Approve(orderID, actor string) (domain.Order, error) {
	start := time.Now()
	defer o.observeDuration("approve", start)

	if actor == "" {
		return domain.Order{}, o.fail(domain.ErrActorRequired)
	}

	order, err := o.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, o.fail(err)
	}
	if order.Status != domain.OrderStatusPending {
		return domain.Order{}, o.fail(domain.NewOperationConflict("approve", order.Status))
	}

	lines := make([]domain.AllocationLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, domain.AllocationLine{VariantID: item.VariantID, Qty: item.Qty})
	}

	// Внешний эффект до локального коммита: заказ не должен стать CONFIRMED
	// без успешно зарезервированного стока.
	if err := o.inventory.Allocate(order.ID, lines); err != nil {
		o.logger.WithError(err).WithField("order_id", order.ID).Warn("stock allocation failed")
		return domain.Order{}, o.fail(err)
	}

	now := time.Now().UTC()
	order.Status = domain.OrderStatusConfirmed
	order.ApprovedBy = actor
	order.ApprovedAt = &now
	order.UpdatedAt = now

	entry := domain.TrackingEntry{
		OrderID:  order.ID,
		Status:   domain.OrderStatusConfirmed,
		Notes:    "order approved, stock allocated",
		Actor:    actor,
		Occurred: now,
	}

	event, err := o.buildEvent(order.ID, domain.EventTypeOrderConfirmed, domain.OrderConfirmedEvent{
		OrderID:    order.ID,
		DealerID:   order.DealerID,
		ApprovedBy: actor,
		ApprovedAt: now,
	})
	if err != nil {
		return domain.Order{}, err
	}

	if err := o.commitAfterExternal(&order, entry, event, "approve"); err != nil {
		return domain.Order{}, err
	}

	o.logger.WithFields(log.Fields{"order_id": order.ID, "approved_by": actor}).Info("order approved")
	return order, nil
}

// Ship отгружает подтверждённый заказ дилеру. Позиции обогащаются
// метаданными каталога; неудача любого обогащения отменяет весь вызов.
func (o *orchestrator) Ship(orderID, actor string, shipment Shipment) (domain.Order, error) {
	start := time.Now()
	defer o.observeDuration("ship", start)

	if actor == "" {
		return domain.Order{}, o.fail(domain.ErrActorRequired)
	}

	order, err := o.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, o.fail(err)
	}
	if order.Status != domain.OrderStatusConfirmed {
		return domain.Order{}, o.fail(domain.NewOperationConflict("ship", order.Status))
	}

	lines := make([]domain.ShipmentLine, 0, len(order.Items))
	for _, item := range order.Items {
		meta, err := o.catalog.GetMetadata(item.VariantID)
		if err != nil {
			o.logger.WithError(err).WithFields(log.Fields{
				"order_id":   order.ID,
				"variant_id": item.VariantID,
			}).Warn("metadata enrichment failed")
			return domain.Order{}, o.fail(err)
		}
		lines = append(lines, domain.ShipmentLine{
			VariantID:   item.VariantID,
			Qty:         item.Qty,
			ModelID:     meta.ModelID,
			ModelName:   meta.ModelName,
			VariantName: meta.VariantName,
		})
	}

	if err := o.inventory.Ship(order.ID, order.DealerID, lines); err != nil {
		o.logger.WithError(err).WithField("order_id", order.ID).Warn("shipment failed")
		return domain.Order{}, o.fail(err)
	}

	now := time.Now().UTC()
	order.Status = domain.OrderStatusInTransit
	order.UpdatedAt = now

	notes := "order shipped"
	if shipment.Carrier != "" {
		notes = fmt.Sprintf("order shipped via %s", shipment.Carrier)
	}
	if shipment.Reference != "" {
		notes = fmt.Sprintf("%s, ref %s", notes, shipment.Reference)
	}
	if shipment.Notes != "" {
		notes = fmt.Sprintf("%s: %s", notes, shipment.Notes)
	}

	entry := domain.TrackingEntry{
		OrderID:  order.ID,
		Status:   domain.OrderStatusInTransit,
		Notes:    notes,
		Actor:    actor,
		Occurred: now,
	}

	event, err := o.buildEvent(order.ID, domain.EventTypeOrderShipped, domain.OrderShippedEvent{
		OrderID:   order.ID,
		DealerID:  order.DealerID,
		Carrier:   shipment.Carrier,
		Reference: shipment.Reference,
		ShippedAt: now,
	})
	if err != nil {
		return domain.Order{}, err
	}

	if err := o.commitAfterExternal(&order, entry, event, "ship"); err != nil {
		return domain.Order{}, err
	}

	o.logger.WithFields(log.Fields{"order_id": order.ID, "carrier": shipment.Carrier}).Info("order shipped")
	return order, nil
}

// ConfirmDelivery завершает доставку по подтверждению дилера-владельца.
func (o *orchestrator) ConfirmDelivery(orderID, dealerID string) (domain.Order, error) {
	start := time.Now()
	defer o.observeDuration("confirm_delivery", start)

	if dealerID == "" {
		return domain.Order{}, o.fail(domain.ErrDealerRequired)
	}

	order, err := o.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, o.fail(err)
	}
	// Владение проверяется раньше статуса: чужой заказ не раскрывает
	// своё состояние через класс ошибки.
	if !order.OwnedBy(dealerID) {
		return domain.Order{}, o.fail(domain.ErrOwnership)
	}
	if order.Status != domain.OrderStatusInTransit {
		return domain.Order{}, o.fail(domain.NewOperationConflict("confirm delivery", order.Status))
	}

	now := time.Now().UTC()
	order.Status = domain.OrderStatusDelivered
	order.DeliveryDate = &now
	order.UpdatedAt = now

	entry := domain.TrackingEntry{
		OrderID:  order.ID,
		Status:   domain.OrderStatusDelivered,
		Notes:    "delivery confirmed by dealer",
		Actor:    dealerID,
		Occurred: now,
	}

	delivered := make([]domain.DeliveredItem, 0, len(order.Items))
	for _, item := range order.Items {
		delivered = append(delivered, domain.DeliveredItem{VariantID: item.VariantID, Qty: item.Qty})
	}

	event, err := o.buildEvent(order.ID, domain.EventTypeOrderDelivered, domain.OrderDeliveredEvent{
		OrderID:      order.ID,
		DealerID:     order.DealerID,
		DeliveryDate: now,
		TotalAmount:  order.TotalMinor,
		Items:        delivered,
	})
	if err != nil {
		return domain.Order{}, err
	}

	if err := o.commitLocal(&order, entry, event); err != nil {
		return domain.Order{}, err
	}

	o.logger.WithFields(log.Fields{"order_id": order.ID, "dealer_id": dealerID}).Info("delivery confirmed")
	return order, nil
}

// ReportIssue открывает спор по отгрузке, находящейся в пути.
// Запись трекинга и событие делят один захваченный момент времени.
func (o *orchestrator) ReportIssue(orderID, dealerID, reason string) (domain.Order, error) {
	start := time.Now()
	defer o.observeDuration("report_issue", start)

	if dealerID == "" {
		return domain.Order{}, o.fail(domain.ErrDealerRequired)
	}
	if reason == "" {
		return domain.Order{}, o.fail(domain.ErrReasonRequired)
	}

	order, err := o.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, o.fail(err)
	}
	if !order.OwnedBy(dealerID) {
		return domain.Order{}, o.fail(domain.ErrOwnership)
	}
	if order.Status != domain.OrderStatusInTransit {
		return domain.Order{}, o.fail(domain.NewOperationConflict("report issue", order.Status))
	}

	now := time.Now().UTC()
	order.Status = domain.OrderStatusDisputed
	order.UpdatedAt = now

	entry := domain.TrackingEntry{
		OrderID:  order.ID,
		Status:   domain.OrderStatusDisputed,
		Notes:    reason,
		Actor:    dealerID,
		Occurred: now,
	}

	event, err := o.buildEvent(order.ID, domain.EventTypeOrderIssueReported, domain.OrderIssueReportedEvent{
		OrderID:    order.ID,
		DealerID:   order.DealerID,
		ReportedBy: dealerID,
		Reason:     reason,
		ReportedAt: now,
	})
	if err != nil {
		return domain.Order{}, err
	}

	if err := o.commitLocal(&order, entry, event); err != nil {
		return domain.Order{}, err
	}

	o.logger.WithFields(log.Fields{"order_id": order.ID, "reason": reason}).Info("dispute opened")
	return order, nil
}

// Cancel отменяет заказ до подтверждения. Дилер может отменять только
// собственные заказы, персонал — любые.
func (o *orchestrator) Cancel(orderID, actor string, role domain.ActorRole) (domain.Order, error) {
	start := time.Now()
	defer o.observeDuration("cancel", start)

	if actor == "" {
		return domain.Order{}, o.fail(domain.ErrActorRequired)
	}
	if !role.Valid() {
		return domain.Order{}, o.fail(domain.ErrRoleInvalid)
	}

	order, err := o.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, o.fail(err)
	}
	if role == domain.RoleDealer && !order.OwnedBy(actor) {
		return domain.Order{}, o.fail(domain.ErrOwnership)
	}
	if order.Status != domain.OrderStatusPending {
		return domain.Order{}, o.fail(domain.NewOperationConflict("cancel", order.Status))
	}

	now := time.Now().UTC()
	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = now

	entry := domain.TrackingEntry{
		OrderID:  order.ID,
		Status:   domain.OrderStatusCancelled,
		Notes:    fmt.Sprintf("order cancelled by %s", role),
		Actor:    actor,
		Occurred: now,
	}

	event, err := o.buildEvent(order.ID, domain.EventTypeOrderCancelled, domain.OrderCancelledEvent{
		OrderID:     order.ID,
		CancelledBy: actor,
		CancelledAt: now,
	})
	if err != nil {
		return domain.Order{}, err
	}

	if err := o.commitLocal(&order, entry, event); err != nil {
		return domain.Order{}, err
	}

	o.logger.WithFields(log.Fields{"order_id": order.ID, "cancelled_by": actor}).Info("order cancelled")
	return order, nil
}

// DeleteCancelled необратимо удаляет отменённый заказ. Статусная защита
// живёт в хранилище и выполняется в той же транзакции, что и удаление.
// Записи трекинга остаются как аудиторский след.
func (o *orchestrator) DeleteCancelled(orderID string) error {
	start := time.Now()
	defer o.observeDuration("delete_cancelled", start)

	if err := o.orders.DeleteCancelled(orderID); err != nil {
		return o.fail(err)
	}

	o.logger.WithField("order_id", orderID).Info("cancelled order deleted")
	return nil
}

// commitLocal фиксирует переход без предшествующего внешнего эффекта.
func (o *orchestrator) commitLocal(order *domain.Order, entry domain.TrackingEntry, event domain.OutboxMessage) error {
	if err := o.orders.Update(*order, entry, event); err != nil {
		o.logger.WithError(err).WithField("order_id", order.ID).Error("failed to persist transition")
		return o.fail(err)
	}
	order.Version++
	o.recordCommit(order.Status)
	return nil
}

// commitAfterExternal фиксирует переход после успешного внешнего вызова.
// Неудача коммита здесь оставляет внешний эффект без локального следа;
// расхождение помечается логом и метрикой для сверки оператором,
// компенсация не выполняется.
func (o *orchestrator) commitAfterExternal(order *domain.Order, entry domain.TrackingEntry, event domain.OutboxMessage, operation string) error {
	if err := o.orders.Update(*order, entry, event); err != nil {
		o.logger.WithError(err).WithFields(log.Fields{
			"order_id":  order.ID,
			"operation": operation,
		}).Error("local commit failed after successful external effect, reconciliation required")
		if o.metrics != nil {
			o.metrics.RecordReconciliationRequired()
		}
		return o.fail(err)
	}
	order.Version++
	o.recordCommit(order.Status)
	return nil
}

func (o *orchestrator) buildEvent(orderID, eventType string, payload any) (domain.OutboxMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		o.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Error("marshal event failed")
		return domain.OutboxMessage{}, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   orderID,
		EventType:     eventType,
		Payload:       data,
	}, nil
}

func (o *orchestrator) recordCommit(status domain.OrderStatus) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordTransition(string(status))
	o.metrics.RecordTrackingEntry()
	o.metrics.RecordOutboxEvent()
}

func (o *orchestrator) observeDuration(operation string, start time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordOperationDuration(operation, time.Since(start))
}

// fail классифицирует ошибку для метрик и возвращает её без изменений.
func (o *orchestrator) fail(err error) error {
	if o.metrics != nil {
		o.metrics.RecordFailure(failureReason(err))
	}
	return err
}

func failureReason(err error) string {
	switch {
	case domain.IsStateConflict(err):
		return "state_conflict"
	case domain.IsValidation(err):
		return "validation"
	case domain.IsDownstreamUnavailable(err):
		return "downstream_unavailable"
	case errors.Is(err, domain.ErrOwnership):
		return "ownership"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrShipmentConflict):
		return "shipment_conflict"
	case errors.Is(err, domain.ErrOrderNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrVariantNotFound):
		return "variant_not_found"
	default:
		return "internal"
	}
}

var _ Orchestrator = (*orchestrator)(nil)

package lifecycle

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

// ResolveDispute закрывает спор одним из допустимых исходов:
// IN_TRANSIT (отгрузка продолжается), DELIVERED (принято несмотря на
// претензию) или RETURNED_TO_CENTRAL (сток возвращается на центральный
// склад). Любой выход из спора оставляет статус заказа и фактическое
// владение стоком согласованными: возврат на склад выполняется до
// локального коммита, и только его успех позволяет записать
// RETURNED_TO_CENTRAL.
func (o *orchestrator) ResolveDispute(orderID, actor string, outcome domain.OrderStatus, notes string) (domain.Order, error) {
	start := time.Now()
	defer o.observeDuration("resolve_dispute", start)

	if actor == "" {
		return domain.Order{}, o.fail(domain.ErrActorRequired)
	}
	if !domain.OrderStatusDisputed.CanTransitionTo(outcome) {
		return domain.Order{}, o.fail(fmt.Errorf("%w: %s", domain.ErrOutcomeInvalid, outcome))
	}

	order, err := o.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, o.fail(err)
	}
	if order.Status != domain.OrderStatusDisputed {
		return domain.Order{}, o.fail(domain.NewOperationConflict("resolve dispute", order.Status))
	}

	if outcome == domain.OrderStatusReturnedToCentral {
		if err := o.inventory.ReturnStock(order.ID); err != nil {
			o.logger.WithError(err).WithField("order_id", order.ID).Warn("stock return failed")
			return domain.Order{}, o.fail(err)
		}
	}

	now := time.Now().UTC()
	order.Status = outcome
	order.UpdatedAt = now
	if outcome == domain.OrderStatusDelivered {
		order.DeliveryDate = &now
	}

	entry := domain.TrackingEntry{
		OrderID:  order.ID,
		Status:   outcome,
		Notes:    resolutionNotes(outcome, notes),
		Actor:    actor,
		Occurred: now,
	}

	event, err := o.buildEvent(order.ID, domain.EventTypeOrderDisputeResolved, domain.OrderDisputeResolvedEvent{
		OrderID:    order.ID,
		ResolvedBy: actor,
		Outcome:    string(outcome),
		Notes:      notes,
		ResolvedAt: now,
	})
	if err != nil {
		return domain.Order{}, err
	}

	if outcome == domain.OrderStatusReturnedToCentral {
		if err := o.commitAfterExternal(&order, entry, event, "resolve_dispute"); err != nil {
			return domain.Order{}, err
		}
	} else {
		if err := o.commitLocal(&order, entry, event); err != nil {
			return domain.Order{}, err
		}
	}

	o.deleteDisputeNotification(order.ID)

	o.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"outcome":     outcome,
		"resolved_by": actor,
	}).Info("dispute resolved")
	return order, nil
}

func resolutionNotes(outcome domain.OrderStatus, notes string) string {
	base := fmt.Sprintf("dispute resolved: %s", outcome)
	if notes == "" {
		return base
	}
	return fmt.Sprintf("%s (%s)", base, notes)
}

// deleteDisputeNotification снимает отложенное уведомление о споре.
// Вызов best-effort: спор уже закрыт, отсутствие уведомления или
// недоступность сервиса уведомлений на исход не влияют.
func (o *orchestrator) deleteDisputeNotification(orderID string) {
	if o.notifications == nil {
		return
	}
	link := fmt.Sprintf("/orders/%s", orderID)
	if err := o.notifications.DeletePendingByLink(link); err != nil {
		o.logger.WithError(err).WithField("order_id", orderID).Warn("failed to delete dispute notification")
	}
}

package domain

// OrderStatus описывает жизненный цикл оптового (B2B) заказа дилера.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан дилером, ожидает подтверждения персоналом.
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusConfirmed — заказ подтверждён, сток зарезервирован на центральном складе.
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// OrderStatusInTransit — автомобили отгружены и находятся в пути к дилеру.
	OrderStatusInTransit OrderStatus = "IN_TRANSIT"
	// OrderStatusDelivered — дилер подтвердил получение; терминальный статус.
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled — заказ отменён до подтверждения; терминальный статус.
	OrderStatusCancelled OrderStatus = "CANCELLED"
	// OrderStatusDisputed — дилер открыл спор по отгрузке, обычный цикл приостановлен.
	OrderStatusDisputed OrderStatus = "DISPUTED"
	// OrderStatusReturnedToCentral — спор закрыт возвратом стока на центральный склад; терминальный статус.
	OrderStatusReturnedToCentral OrderStatus = "RETURNED_TO_CENTRAL"
)

// transitions — статическая таблица разрешённых переходов.
// Любой переход вне таблицы отклоняется с ошибкой конфликта состояния.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusInTransit},
	OrderStatusInTransit: {OrderStatusDelivered, OrderStatusDisputed},
	OrderStatusDisputed:  {OrderStatusInTransit, OrderStatusDelivered, OrderStatusReturnedToCentral},
}

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInTransit,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusDisputed,
		OrderStatusReturnedToCentral:
		return true
	default:
		return false
	}
}

// IsTerminal сообщает, завершает ли статус жизненный цикл заказа.
func (s OrderStatus) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransitionTo проверяет переход по таблице transitions.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DisputeOutcomes возвращает допустимые статусы-выходы из спора.
func DisputeOutcomes() []OrderStatus {
	result := make([]OrderStatus, len(transitions[OrderStatusDisputed]))
	copy(result, transitions[OrderStatusDisputed])
	return result
}

// PaymentStatus описывает состояние оплаты заказа. Сам процесс оплаты
// обрабатывается внешней биллинговой системой, здесь статус только хранится.
type PaymentStatus string

const (
	// PaymentStatusUnpaid — счёт дилеру ещё не оплачен.
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	// PaymentStatusPaid — оплата подтверждена внешней биллинговой системой.
	PaymentStatusPaid PaymentStatus = "PAID"
)

// ActorRole определяет, от чьего имени выполняется операция.
type ActorRole string

const (
	// RoleDealer — дилер; операции ограничены его собственными заказами.
	RoleDealer ActorRole = "dealer"
	// RoleStaff — персонал производителя; проверка владения не применяется.
	RoleStaff ActorRole = "staff"
)

// Valid проверяет, что роль известна системе.
func (r ActorRole) Valid() bool {
	return r == RoleDealer || r == RoleStaff
}

package domain

import (
	"errors"
	"fmt"
)

// Классы ошибок. Каждая операция оркестратора возвращает ошибку,
// сводимую errors.Is к одному из этих sentinel-значений.
var (
	// ErrValidation — некорректный вход; детали добавляются обёртками ниже.
	ErrValidation = errors.New("validation failed")
	// ErrStateConflict — операция не разрешена из текущего статуса заказа.
	ErrStateConflict = errors.New("order state conflict")
	// ErrOwnership — заказ принадлежит другому дилеру.
	ErrOwnership = errors.New("order belongs to another dealer")
	// ErrDownstreamUnavailable — каталог или склад недоступны; операция прервана без записи.
	ErrDownstreamUnavailable = errors.New("downstream service unavailable")
	// ErrInsufficientStock — склад явно отказал в резервировании.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrShipmentConflict — склад отклонил отгрузку как конфликтующую.
	ErrShipmentConflict = errors.New("shipment conflict")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrVariantNotFound — комплектация отсутствует в каталоге.
	ErrVariantNotFound = errors.New("variant not found in catalog")
)

// Ошибки валидации полей заказа; все сводимы к ErrValidation.
var (
	ErrDealerRequired      = fmt.Errorf("%w: dealer_id is required", ErrValidation)
	ErrActorRequired       = fmt.Errorf("%w: actor is required", ErrValidation)
	ErrRoleInvalid         = fmt.Errorf("%w: actor role must be dealer or staff", ErrValidation)
	ErrReasonRequired      = fmt.Errorf("%w: dispute reason is required", ErrValidation)
	ErrItemsRequired       = fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	ErrItemVariantRequired = fmt.Errorf("%w: item variant_id is required", ErrValidation)
	ErrItemQtyInvalid      = fmt.Errorf("%w: item qty must be greater than zero", ErrValidation)
	ErrItemPriceInvalid    = fmt.Errorf("%w: item price must be non-negative", ErrValidation)
	ErrItemDiscountInvalid = fmt.Errorf("%w: item discount must be within 0..100", ErrValidation)
	ErrAmountNegative      = fmt.Errorf("%w: total amount must be non-negative", ErrValidation)
	ErrAmountMismatch      = fmt.Errorf("%w: order total does not match items sum", ErrValidation)
	ErrStatusInvalid       = fmt.Errorf("%w: unknown order status", ErrValidation)
	ErrOutcomeInvalid      = fmt.Errorf("%w: dispute outcome is not allowed", ErrValidation)
)

var (
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	// Для вызывающей стороны это конфликт состояния: кто-то успел изменить заказ.
	ErrOrderVersionConflict = fmt.Errorf("%w: order version conflict", ErrStateConflict)
	// ErrOutboxMessageNotFound — outbox-запись с таким ID отсутствует.
	ErrOutboxMessageNotFound = errors.New("outbox message not found")
)

// NewStateConflict описывает запрещённый переход между статусами.
func NewStateConflict(current, requested OrderStatus) error {
	return fmt.Errorf("%w: transition %s -> %s is not allowed", ErrStateConflict, current, requested)
}

// NewOperationConflict описывает операцию, недопустимую из текущего статуса.
func NewOperationConflict(operation string, current OrderStatus) error {
	return fmt.Errorf("%w: %s is not allowed while order is %s", ErrStateConflict, operation, current)
}

// IsValidation проверяет, относится ли ошибка к классу ошибок валидации.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsStateConflict проверяет, является ли ошибка конфликтом состояния.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrStateConflict)
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}

// IsDownstreamUnavailable проверяет, вызвана ли ошибка недоступностью внешнего сервиса.
func IsDownstreamUnavailable(err error) bool {
	return errors.Is(err, ErrDownstreamUnavailable)
}

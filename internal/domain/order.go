package domain

import "time"

// OrderItem представляет одну позицию заказа — комплектацию автомобиля.
type OrderItem struct {
	// ID позиции нужен для однозначной идентификации и аудита.
	ID string
	// VariantID — идентификатор комплектации в каталоге производителя.
	VariantID string
	// Qty — количество автомобилей данной комплектации.
	Qty int32
	// UnitPriceMinor — цена за единицу в минимальных денежных единицах, из каталога.
	UnitPriceMinor int64
	// DiscountPercent — оптовая скидка дилера в целых процентах (0..100).
	DiscountPercent int32
	// FinalPriceMinor — итоговая цена позиции, фиксируется при создании заказа.
	FinalPriceMinor int64
	// CreatedAt фиксирует момент добавления позиции в заказ.
	CreatedAt time.Time
}

// ComputeFinalPriceMinor считает итоговую цену позиции в целочисленной
// арифметике: unit * qty * (100 - discount) / 100, деление с усечением.
func ComputeFinalPriceMinor(unitPriceMinor int64, qty int32, discountPercent int32) int64 {
	return unitPriceMinor * int64(qty) * int64(100-discountPercent) / 100
}

// Order агрегирует состояние B2B-заказа и его позиции.
type Order struct {
	ID       string
	DealerID string
	// CustomerID пуст для чисто оптовых заказов; заполняется, если дилер
	// оформляет заказ под конечного клиента.
	CustomerID    string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	// ApprovedBy/ApprovedAt — кто и когда подтвердил заказ.
	ApprovedBy string
	ApprovedAt *time.Time
	// DeliveryDate устанавливается при подтверждении доставки.
	DeliveryDate *time.Time
	// TotalMinor — сумма FinalPriceMinor всех позиций.
	TotalMinor int64
	Items      []OrderItem
	// Version используется для optimistic locking при сохранении.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.DealerID == "" {
		errs = append(errs, ErrDealerRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrStatusInvalid)
	}
	if o.TotalMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}

	// Сверяем сумму заказа с суммой позиций по той же формуле,
	// что использовалась при создании.
	var calc int64
	for _, item := range o.Items {
		if item.VariantID == "" {
			errs = append(errs, ErrItemVariantRequired)
		}
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.UnitPriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		if item.DiscountPercent < 0 || item.DiscountPercent > 100 {
			errs = append(errs, ErrItemDiscountInvalid)
		}
		calc += item.FinalPriceMinor
	}
	if calc != o.TotalMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}

// OwnedBy проверяет, принадлежит ли заказ указанному дилеру.
func (o *Order) OwnedBy(dealerID string) bool {
	return o.DealerID == dealerID
}

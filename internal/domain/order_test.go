package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

// helper для создания базового заказа с одной позицией.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:            "order-1",
		DealerID:      "dealer-1",
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
		TotalMinor:    500,
		Items: []domain.OrderItem{
			{
				ID:              "item-1",
				VariantID:       "variant-1",
				Qty:             5,
				UnitPriceMinor:  100,
				DiscountPercent: 0,
				FinalPriceMinor: 500,
				CreatedAt:       now,
			},
		},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no dealer",
			mut: func(o *domain.Order) {
				o.DealerID = ""
			},
		},
		{
			name: "negative total",
			mut: func(o *domain.Order) {
				o.TotalMinor = -1
			},
		},
		{
			name: "no items",
			mut: func(o *domain.Order) {
				o.Items = nil
			},
		},
		{
			name: "qty invalid",
			mut: func(o *domain.Order) {
				o.Items[0].Qty = 0
			},
		},
		{
			name: "price invalid",
			mut: func(o *domain.Order) {
				o.Items[0].UnitPriceMinor = -5
			},
		},
		{
			name: "discount invalid",
			mut: func(o *domain.Order) {
				o.Items[0].DiscountPercent = 101
			},
		},
		{
			name: "variant missing",
			mut: func(o *domain.Order) {
				o.Items[0].VariantID = ""
			},
		},
		{
			name: "total mismatch",
			mut: func(o *domain.Order) {
				o.TotalMinor = 999
			},
		},
		{
			name: "unknown status",
			mut: func(o *domain.Order) {
				o.Status = "SOMEWHERE"
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)
			if errs := order.ValidateInvariants(); len(errs) == 0 {
				t.Fatalf("expected validation errors, got none")
			}
		})
	}
}

func TestComputeFinalPriceMinor(t *testing.T) {
	cases := []struct {
		name     string
		unit     int64
		qty      int32
		discount int32
		want     int64
	}{
		{name: "no discount", unit: 500, qty: 2, discount: 0, want: 1000},
		{name: "ten percent", unit: 1000, qty: 3, discount: 10, want: 2700},
		{name: "full discount", unit: 700, qty: 4, discount: 100, want: 0},
		{name: "truncating division", unit: 333, qty: 1, discount: 10, want: 299},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ComputeFinalPriceMinor(tc.unit, tc.qty, tc.discount)
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestOrderOwnedBy(t *testing.T) {
	order := makeOrder()
	if !order.OwnedBy("dealer-1") {
		t.Fatalf("expected order to be owned by dealer-1")
	}
	if order.OwnedBy("dealer-2") {
		t.Fatalf("expected order not to be owned by dealer-2")
	}
}

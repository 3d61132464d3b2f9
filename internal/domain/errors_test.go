package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

func TestErrorClasses(t *testing.T) {
	if !domain.IsValidation(domain.ErrItemsRequired) {
		t.Fatalf("expected ErrItemsRequired to be a validation error")
	}
	if !domain.IsValidation(domain.ErrItemDiscountInvalid) {
		t.Fatalf("expected ErrItemDiscountInvalid to be a validation error")
	}
	if domain.IsValidation(domain.ErrOrderNotFound) {
		t.Fatalf("ErrOrderNotFound must not be a validation error")
	}
}

func TestStateConflictHelpers(t *testing.T) {
	err := domain.NewStateConflict(domain.OrderStatusDelivered, domain.OrderStatusConfirmed)
	if !domain.IsStateConflict(err) {
		t.Fatalf("expected state conflict class")
	}

	err = domain.NewOperationConflict("approve", domain.OrderStatusCancelled)
	if !domain.IsStateConflict(err) {
		t.Fatalf("expected operation conflict to be a state conflict")
	}

	if !domain.IsStateConflict(domain.ErrOrderVersionConflict) {
		t.Fatalf("version conflict must surface as a state conflict")
	}
	if !domain.IsVersionConflict(domain.ErrOrderVersionConflict) {
		t.Fatalf("expected IsVersionConflict to match")
	}
	if domain.IsVersionConflict(domain.NewStateConflict(domain.OrderStatusPending, domain.OrderStatusDelivered)) {
		t.Fatalf("plain state conflict is not a version conflict")
	}
}

func TestDownstreamUnavailable_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("allocate order stock: %w", domain.ErrDownstreamUnavailable)
	if !domain.IsDownstreamUnavailable(wrapped) {
		t.Fatalf("expected wrapped error to keep its class")
	}
	if domain.IsDownstreamUnavailable(errors.New("boom")) {
		t.Fatalf("unrelated error must not match")
	}
}

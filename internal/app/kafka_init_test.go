package app

import (
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestInitKafkaProducer_EmptyBrokers(t *testing.T) {
	logger := log.WithField("component", "test")

	producer, err := initKafkaProducer("", logger)
	if err != nil {
		t.Fatalf("expected no error for empty brokers, got %v", err)
	}
	if producer != nil {
		t.Fatal("expected nil producer for empty brokers")
	}

	producer, err = initKafkaProducer("   ", logger)
	if err != nil {
		t.Fatalf("expected no error for blank brokers, got %v", err)
	}
	if producer != nil {
		t.Fatal("expected nil producer for blank brokers")
	}
}

func TestInitKafkaProducer_UnreachableBroker(t *testing.T) {
	logger := log.WithField("component", "test")

	// Заданный, но недоступный брокер — ошибка конфигурации, а не режим без relay.
	producer, err := initKafkaProducer("127.0.0.1:1", logger)
	if err == nil {
		t.Fatal("expected error for unreachable broker")
	}
	if producer != nil {
		t.Fatal("expected nil producer on error")
	}
}

func TestCloseKafka_NilProducer(t *testing.T) {
	// Не должно паниковать.
	closeKafka(nil, log.WithField("component", "test"))
}

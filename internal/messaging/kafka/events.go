package kafka

// Topics для Kafka
const (
	// TopicOrderEvents — доменные события жизненного цикла заказов.
	TopicOrderEvents = "dealer-oms.order.events"
	// TopicDeadLetterQueue — события, не доставленные после исчерпания retry.
	TopicDeadLetterQueue = "dealer-oms.dlq"
)

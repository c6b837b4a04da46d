package pipeline

import "errors"

var (
	ErrInvalidKafkaConfig     = errors.New("invalid Kafka configuration provided")
	ErrKafkaFetchFailed       = errors.New("failed to fetch message from Kafka")
	ErrConsumerCreationFailed = errors.New("failed to create consumer")
	ErrIngestorCreationFailed = errors.New("failed to create ingestor")
	ErrConsumerRunFailed      = errors.New("consumer component failed")
	ErrIngestorRunFailed      = errors.New("ingestor component failed")
	ErrMetricsServerFailed    = errors.New("metrics server failed")
)

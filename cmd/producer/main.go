package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	kafkaBroker = "localhost:9092"
	topic       = "record-stream"
)

// Example record structure (matches what streamlens expects: a "time" field
// plus numeric fields to summarize).
type SampleRecord struct {
	Time         time.Time `json:"time"`
	Source       string    `json:"source"`
	LatencyMs    *float64  `json:"latency_ms"`
	ThroughputKB *float64  `json:"throughput_kb"`
	Status       string    `json:"status"`
}

func main() {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(kafkaBroker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Fatalf("Error closing kafka writer: %v", err)
		}
	}()
	log.Printf("Starting sample producer for topic: %s on broker: %s", topic, kafkaBroker)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		log.Println("Shutdown signal received, stopping producer...")
		cancel()
	}()

	// Produce messages periodically
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		select {
		case <-ticker.C:
			msgBytes, err := json.Marshal(generateSampleRecord(rng))
			if err != nil {
				log.Printf("Error marshalling record: %v", err)
				continue
			}

			// A small share of records deliberately drop the time field to
			// exercise the window's malformed-timestamp policy.
			if rng.Float64() < 0.02 {
				msgBytes = stripTimeField(msgBytes)
			}

			err = writer.WriteMessages(ctx, kafka.Message{Value: msgBytes})
			if err != nil {
				if ctx.Err() != nil { // Check if context was cancelled (shutdown)
					log.Println("Context cancelled, exiting message loop.")
					return
				}
				log.Printf("Error writing record: %v", err)
			} else {
				log.Printf("Produced record: %s", string(msgBytes))
			}

		case <-ctx.Done():
			log.Println("Producer loop stopped.")
			return
		}
	}
}

// Generates a sample record with some randomness and potential nulls/outliers
func generateSampleRecord(rng *rand.Rand) SampleRecord {
	now := time.Now()
	source := fmt.Sprintf("node_%d", rng.Intn(16))

	var latency *float64
	// ~10% chance of being null
	if rng.Float64() > 0.1 {
		// Normal distribution around 25ms, stddev 8, plus occasional spike
		val := 25.0 + rng.NormFloat64()*8.0
		if rng.Float64() < 0.02 {
			val += rng.Float64() * 200.0
		}
		latency = &val
	}

	var throughput *float64
	// ~5% chance of being null
	if rng.Float64() > 0.05 {
		val := 500.0 + rng.Float64()*100.0
		throughput = &val
	}

	statuses := []string{"ok", "ok", "ok", "degraded", "error"}
	status := statuses[rng.Intn(len(statuses))]

	return SampleRecord{
		Time:         now,
		Source:       source,
		LatencyMs:    latency,
		ThroughputKB: throughput,
		Status:       status,
	}
}

// stripTimeField re-marshals the record without its time field.
func stripTimeField(msgBytes []byte) []byte {
	var m map[string]interface{}
	if err := json.Unmarshal(msgBytes, &m); err != nil {
		return msgBytes
	}
	delete(m, "time")
	out, err := json.Marshal(m)
	if err != nil {
		return msgBytes
	}
	return out
}

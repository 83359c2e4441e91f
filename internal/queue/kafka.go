package queue

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

const changeTopic = "book.structure.changes"

var _ Publisher = (*Kafka)(nil)

// Kafka publishes entity change events to the book.structure.changes topic.
type Kafka struct {
	producer *kafka.Producer
	topic    string
}

func NewKafka(brokers string) (*Kafka, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return nil, err
	}

	k := &Kafka{producer: producer, topic: changeTopic}

	// drain delivery reports, failed deliveries are logged and dropped
	go func() {
		for e := range producer.Events() {
			if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				logrus.Errorf("event delivery failed: %v", m.TopicPartition.Error)
			}
		}
	}()

	return k, nil
}

func (k *Kafka) Publish(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.ID),
		Value:          data,
	}, nil)
}

func (k *Kafka) Close() {
	k.producer.Flush(5000)
	k.producer.Close()
}

// Package kafka publishes audit entries to a Kafka topic. Each produce is
// synchronous so a nil error from Append means the broker acknowledged it.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "bpd/pkg/platform/audit"
)

// DefaultTopic is the audit topic used when none is configured.
const DefaultTopic = "bpd.dashboard-logs"

// Producer is the subset of *kgo.Client the store needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Store implements audit.Store by producing one record per entry, keyed by
// the actor so an actor's entries stay ordered within a partition.
type Store struct {
	producer Producer
	topic    string
}

// New creates a Kafka audit store.
func New(producer Producer, topic string) *Store {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Store{producer: producer, topic: topic}
}

// message is the JSON value of an audit record.
type message struct {
	PartitionKey  string `json:"partition_key"`
	RowKey        string `json:"row_key"`
	RequestID     string `json:"request_id,omitempty"`
	AuthLevel     string `json:"auth_level"`
	Citizen       string `json:"citizen"`
	OperationName string `json:"operation_name"`
	ActorEmail    string `json:"actor_email,omitempty"`
	ActorName     string `json:"actor_name,omitempty"`
	ClientIP      string `json:"client_ip,omitempty"`
	UserAgent     string `json:"user_agent,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// Append produces entry and waits for the acknowledgement.
func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	value, err := json.Marshal(message{
		PartitionKey:  entry.PartitionKey,
		RowKey:        entry.RowKey,
		RequestID:     entry.RequestID,
		AuthLevel:     string(entry.AuthLevel),
		Citizen:       entry.Citizen,
		OperationName: entry.OperationName,
		ActorEmail:    entry.ActorEmail,
		ActorName:     entry.ActorName,
		ClientIP:      entry.ClientIP,
		UserAgent:     entry.UserAgent,
		Timestamp:     entry.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(entry.PartitionKey),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "operation", Value: []byte(entry.OperationName)},
			{Key: "row_key", Value: []byte(entry.RowKey)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit entry: %w", err)
	}
	return nil
}

// DecodeEntry parses a record value produced by Append.
func DecodeEntry(value []byte) (audit.Entry, error) {
	var m message
	if err := json.Unmarshal(value, &m); err != nil {
		return audit.Entry{}, fmt.Errorf("decode audit entry: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, m.Timestamp)
	if err != nil {
		return audit.Entry{}, fmt.Errorf("decode audit timestamp: %w", err)
	}
	return audit.Entry{
		PartitionKey:  m.PartitionKey,
		RowKey:        m.RowKey,
		RequestID:     m.RequestID,
		AuthLevel:     audit.AuthLevel(m.AuthLevel),
		Citizen:       m.Citizen,
		OperationName: m.OperationName,
		ActorEmail:    m.ActorEmail,
		ActorName:     m.ActorName,
		ClientIP:      m.ClientIP,
		UserAgent:     m.UserAgent,
		Timestamp:     ts,
	}, nil
}

// EnsureTopic creates topic if it does not already exist.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string, partitions int32, replication int16) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, partitions, replication, nil, topic)
	if err == nil {
		err = resp.Err
	}
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create audit topic %s: %w", topic, err)
	}
	return nil
}

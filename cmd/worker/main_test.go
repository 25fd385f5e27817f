package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/ghuser/itemcatalog/pkg/logger"
	itemEvents "github.com/ghuser/itemcatalog/services/item/domain/events"
)

func TestHandleItemChanged(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	counter, err := provider.Meter("test").Int64Counter("items.events.processed")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	handler := handleItemChanged(logger.NewWithWriter(&buf, "info"), itemEvents.TopicItemUpdated, counter)

	payload, err := json.Marshal(itemEvents.ItemChangedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     7,
		Name:       "Widget",
		Price:      "9.99",
		Fields:     []string{"stock"},
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := handler(context.Background(), message.NewMessage(uuid.NewString(), payload)); err != nil {
		t.Fatalf("handler: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("audit line is not JSON: %v", err)
	}
	if entry["msg"] != "item audit" || entry["item_id"] != float64(7) || entry["topic"] != itemEvents.TopicItemUpdated {
		t.Fatalf("unexpected audit line %v", entry)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 1 {
		t.Fatalf("unexpected counter data %+v", rm.ScopeMetrics[0].Metrics[0].Data)
	}
	if topic, _ := sum.DataPoints[0].Attributes.Value("topic"); topic.AsString() != itemEvents.TopicItemUpdated {
		t.Fatalf("topic attribute = %q", topic.AsString())
	}
}

func TestHandleItemChanged_BadPayload(t *testing.T) {
	counter, err := sdkmetric.NewMeterProvider().Meter("test").Int64Counter("items.events.processed")
	if err != nil {
		t.Fatal(err)
	}
	handler := handleItemChanged(logger.NewNop(), itemEvents.TopicItemCreated, counter)

	err = handler(context.Background(), message.NewMessage(uuid.NewString(), []byte("{")))
	if err == nil || !strings.Contains(err.Error(), itemEvents.TopicItemCreated) {
		t.Fatalf("expected decode error naming the topic, got %v", err)
	}
}

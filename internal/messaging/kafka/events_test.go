package kafka

import (
	"encoding/json"
	"testing"
)

func TestNewOrderEvent(t *testing.T) {
	event := NewOrderEvent(EventTypeOrderStatusChanged, "tenant-1", 42, "customer-1", "Shipping", map[string]interface{}{
		"previous_status": "ReadyToShip",
	})

	if event.EventType != EventTypeOrderStatusChanged {
		t.Errorf("unexpected event type: %s", event.EventType)
	}
	if event.OrderID != 42 || event.TenantID != "tenant-1" {
		t.Errorf("unexpected identity fields: %+v", event)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestOrderEventJSONOmitsEmptyFields(t *testing.T) {
	event := NewOrderEvent(EventTypeOrderDeleted, "tenant-1", 7, "", "Done", nil)

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["customer_id"]; ok {
		t.Error("empty customer_id should be omitted")
	}
	if _, ok := decoded["metadata"]; ok {
		t.Error("nil metadata should be omitted")
	}
	if decoded["event_type"] != "order.deleted" {
		t.Errorf("unexpected event_type: %v", decoded["event_type"])
	}
}

package postgres

import (
	"reflect"
	"testing"

	"github.com/vladislavdragonenkov/shopster/domain"
)

func TestEncodeDecodeListRoundTrip(t *testing.T) {
	values := []string{"electronics", "sale", "new arrival"}

	encoded, err := encodeList(values)
	if err != nil {
		t.Fatalf("encodeList: %v", err)
	}
	if encoded != "electronics|sale|new arrival" {
		t.Fatalf("unexpected encoding: %q", encoded)
	}

	decoded := decodeList(encoded)
	if !reflect.DeepEqual(decoded, values) {
		t.Fatalf("round trip mismatch: %v != %v", decoded, values)
	}
}

func TestEncodeListRejectsDelimiter(t *testing.T) {
	_, err := encodeList([]string{"ok", "bad|value"})
	if !domain.IsInvalidOperation(err) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestDecodeListEmpty(t *testing.T) {
	if got := decodeList(""); got != nil {
		t.Fatalf("empty string should decode to nil, got %v", got)
	}
}

func TestEncodeListEmpty(t *testing.T) {
	encoded, err := encodeList(nil)
	if err != nil {
		t.Fatalf("encodeList(nil): %v", err)
	}
	if encoded != "" {
		t.Fatalf("nil list should encode to empty string, got %q", encoded)
	}
}

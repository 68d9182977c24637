package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestStringFields(t *testing.T) {
	t.Parallel()

	fields := StringFields(
		StringField{Key: "a", Value: "1"},
		StringField{Key: "  ", Value: "dropped"},
		StringField{Key: "b", Value: "  "},
		StringField{Key: " c ", Value: " 3 "},
	)

	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != "a" || fields[1].Key != "c" {
		t.Errorf("unexpected keys: %s, %s", fields[0].Key, fields[1].Key)
	}
}

func TestCommonFields(t *testing.T) {
	t.Parallel()

	fields := CommonFields("gemini", "")
	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].Key != FieldProvider {
		t.Errorf("unexpected key: %s", fields[0].Key)
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	t.Parallel()

	if got := WithFields(nil); got == nil {
		t.Fatal("expected a usable logger for nil input")
	}

	if got := WithFields(zap.NewNop(), zap.String("k", "v")); got == nil {
		t.Fatal("expected a logger with fields attached")
	}
}

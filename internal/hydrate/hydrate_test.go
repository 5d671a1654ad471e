package hydrate

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Foo    string `json:"foo"`
	Nested struct {
		OK bool `json:"ok"`
	} `json:"nested"`
}

func document() map[string]any {
	return map[string]any{
		"foo":    "bar",
		"nested": map[string]any{"ok": true},
	}
}

func TestDecodeIntoStruct(t *testing.T) {
	got, err := NewDecoder[sample]().Decode(Context{Location: "/tmp/sample.json"}, document())
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got.Foo != "bar" || !got.Nested.OK {
		t.Fatalf("unexpected value: %+v", got)
	}
}

func TestDecodeDisallowUnknownFields(t *testing.T) {
	doc := document()
	doc["extra"] = 1.0

	_, err := NewDecoder(WithDisallowUnknownFields[sample]()).Decode(Context{Location: "/tmp/extra.json"}, doc)
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
	if !strings.Contains(err.Error(), "hydrate: decode /tmp/extra.json") {
		t.Fatalf("expected location in error, got %v", err)
	}
}

func TestDecodeMarshalError(t *testing.T) {
	_, err := NewDecoder[sample]().Decode(Context{Location: "doc"}, map[string]any{"ch": make(chan int)})
	if err == nil || !strings.Contains(err.Error(), "hydrate: marshal doc") {
		t.Fatalf("expected marshal error, got %v", err)
	}
}

func TestDecodeTypeMismatch(t *testing.T) {
	_, err := NewDecoder[sample]().Decode(Context{Location: "doc"}, map[string]any{"foo": 1.0})
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected unmarshal type error, got %v", err)
	}
}

func TestDecodeUseNumber(t *testing.T) {
	got, err := NewDecoder(WithUseNumber[map[string]any]()).Decode(Context{}, map[string]any{"n": 42.0})
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if _, ok := got["n"].(json.Number); !ok {
		t.Fatalf("expected json.Number, got %T", got["n"])
	}
}

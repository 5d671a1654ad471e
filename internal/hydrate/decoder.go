// Package hydrate converts loaded JSON documents into typed Go values.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context identifies the document being hydrated.
type Context struct {
	Location string
}

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder re-encodes a generic document and decodes it into T.
type Decoder[T any] struct {
	configureDec []func(*json.Decoder)
}

// WithDisallowUnknownFields invokes json.Decoder.DisallowUnknownFields.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

// WithUseNumber enables json.Decoder.UseNumber for interface-typed fields.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.UseNumber()
		})
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts document into T.
func (d *Decoder[T]) Decode(ctx Context, document any) (T, error) {
	var zero T

	buffer, err := json.Marshal(document)
	if err != nil {
		return zero, fmt.Errorf("hydrate: marshal %s: %w", ctx.Location, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	for _, configure := range d.configureDec {
		configure(decoder)
	}
	var result T
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: decode %s: %w", ctx.Location, err)
	}
	return result, nil
}

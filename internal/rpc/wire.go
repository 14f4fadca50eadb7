// Package rpc holds the content service contract: request and response
// messages, the gRPC service descriptors with their client stubs and server
// registration helpers, and the protobuf codec the messages travel with.
//
// The messages follow content.proto field for field and are encoded in the
// protobuf wire format, so any client generated from that file can talk to
// the content service.
package rpc

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// CodecName replaces grpc's default "proto" codec. Generated messages (the
// health service) are still handled by proto.Marshal.
const CodecName = "proto"

var ErrWireType = errors.New("rpc: unexpected wire type")

type wireMessage interface {
	marshalWire() ([]byte, error)
	unmarshalWire(b []byte) error
}

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case wireMessage:
		return m.marshalWire()
	case proto.Message:
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("rpc: cannot marshal %T", v)
}

func (codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case wireMessage:
		return m.unmarshalWire(data)
	case proto.Message:
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("rpc: cannot unmarshal into %T", v)
}

func (codec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(codec{})
}

// encoder appends fields in proto3 style: scalars at their zero value are
// skipped unless the field has explicit presence.
type encoder struct {
	b []byte
}

func (e *encoder) string(num protowire.Number, s string) {
	if s != "" {
		e.optString(num, &s)
	}
}

func (e *encoder) optString(num protowire.Number, s *string) {
	if s == nil {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, *s)
}

func (e *encoder) strings(num protowire.Number, ss []string) {
	for _, s := range ss {
		e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
		e.b = protowire.AppendString(e.b, s)
	}
}

func (e *encoder) bool(num protowire.Number, v bool) {
	if v {
		e.optBool(num, &v)
	}
}

func (e *encoder) optBool(num protowire.Number, v *bool) {
	if v == nil {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, protowire.EncodeBool(*v))
}

func (e *encoder) int64(num protowire.Number, v int64) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, uint64(v))
}

func (e *encoder) int32(num protowire.Number, v int32) {
	e.int64(num, int64(v))
}

func (e *encoder) double(num protowire.Number, v float64) {
	if v != 0 || math.Signbit(v) {
		e.optDouble(num, &v)
	}
}

func (e *encoder) optDouble(num protowire.Number, v *float64) {
	if v == nil {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.Fixed64Type)
	e.b = protowire.AppendFixed64(e.b, math.Float64bits(*v))
}

func (e *encoder) bytes(num protowire.Number, b []byte) {
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, b)
}

func (e *encoder) message(num protowire.Number, m wireMessage) error {
	b, err := m.marshalWire()
	if err != nil {
		return err
	}
	e.bytes(num, b)
	return nil
}

func (e *encoder) timestamp(num protowire.Number, ts *timestamppb.Timestamp) error {
	if ts == nil {
		return nil
	}
	b, err := proto.Marshal(ts)
	if err != nil {
		return err
	}
	e.bytes(num, b)
	return nil
}

type value struct {
	u uint64
	b []byte
}

func (v value) string() string  { return string(v.b) }
func (v value) bool() bool      { return protowire.DecodeBool(v.u) }
func (v value) int32() int32    { return int32(v.u) }
func (v value) int64() int64    { return int64(v.u) }
func (v value) double() float64 { return math.Float64frombits(v.u) }

func (v value) timestamp() (*timestamppb.Timestamp, error) {
	ts := &timestamppb.Timestamp{}
	if err := proto.Unmarshal(v.b, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

type schema map[protowire.Number]protowire.Type

// walk decodes b field by field. Fields missing from s are skipped, a known
// field arriving with another wire type is an error.
func walk(b []byte, s schema, fn func(num protowire.Number, v value) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		want, known := s[num]
		if !known {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		if typ != want {
			return fmt.Errorf("%w: field %d", ErrWireType, num)
		}

		var v value
		switch typ {
		case protowire.VarintType:
			v.u, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			v.u, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			v.b, n = protowire.ConsumeBytes(b)
		default:
			return fmt.Errorf("%w: field %d", ErrWireType, num)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(num, v); err != nil {
			return err
		}
	}
	return nil
}

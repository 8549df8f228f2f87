//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package encoding

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"trpc.group/trpc-go/trpc-agui-go/event"
)

// Protobuf layout of an event message:
//
//	1: type (varint, 1-based index into event.Types)
//	2: timestamp (double)
//	3: rawEvent (google.protobuf.Value)
//	4+: variant fields in protoFields order
//
// Each message is preceded on the wire by its length as a 4-byte big-endian
// integer.
const (
	fieldType      protowire.Number = 1
	fieldTimestamp protowire.Number = 2
	fieldRawEvent  protowire.Number = 3
	firstField     protowire.Number = 4
	frameHeaderLen                  = 4
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindValue
)

type protoField struct {
	name string
	kind fieldKind
}

func str(name string) protoField { return protoField{name: name, kind: kindString} }
func val(name string) protoField { return protoField{name: name, kind: kindValue} }

var protoFields = map[event.EventType][]protoField{
	event.TypeTextMessageStart:           {str("messageId"), str("role")},
	event.TypeTextMessageContent:         {str("messageId"), str("delta")},
	event.TypeTextMessageEnd:             {str("messageId")},
	event.TypeTextMessageChunk:           {str("messageId"), str("role"), str("delta")},
	event.TypeThinkingTextMessageStart:   nil,
	event.TypeThinkingTextMessageContent: {str("delta")},
	event.TypeThinkingTextMessageEnd:     nil,
	event.TypeToolCallStart:              {str("toolCallId"), str("toolCallName"), str("parentMessageId")},
	event.TypeToolCallArgs:               {str("toolCallId"), str("delta")},
	event.TypeToolCallEnd:                {str("toolCallId")},
	event.TypeToolCallChunk:              {str("toolCallId"), str("toolCallName"), str("parentMessageId"), str("delta")},
	event.TypeToolCallResult:             {str("messageId"), str("toolCallId"), str("content"), str("role")},
	event.TypeThinkingStart:              {str("title")},
	event.TypeThinkingEnd:                nil,
	event.TypeStateSnapshot:              {val("snapshot")},
	event.TypeStateDelta:                 {val("delta")},
	event.TypeMessagesSnapshot:           {val("messages")},
	event.TypeRaw:                        {val("event"), str("source")},
	event.TypeCustom:                     {str("name"), val("value")},
	event.TypeRunStarted:                 {str("threadId"), str("runId")},
	event.TypeRunFinished:                {str("threadId"), str("runId"), val("result")},
	event.TypeRunError:                   {str("message"), str("code")},
	event.TypeStepStarted:                {str("stepName")},
	event.TypeStepFinished:               {str("stepName")},
}

var typeNumbers = func() map[event.EventType]uint64 {
	m := make(map[event.EventType]uint64, len(event.Types))
	for i, t := range event.Types {
		m[t] = uint64(i + 1)
	}
	return m
}()

// ProtoEncoder emits length-prefixed protobuf event messages.
type ProtoEncoder struct{}

// NewProtoEncoder returns a protobuf encoder.
func NewProtoEncoder() *ProtoEncoder {
	return &ProtoEncoder{}
}

// ContentType implements Encoder.
func (*ProtoEncoder) ContentType() string {
	return ContentTypeProtobuf
}

// Encode implements Encoder.
func (*ProtoEncoder) Encode(e event.Event) ([]byte, error) {
	payload, err := MarshalProto(e)
	if err != nil {
		return nil, err
	}
	out := make([]byte, frameHeaderLen, frameHeaderLen+len(payload))
	binary.BigEndian.PutUint32(out, uint32(len(payload)))
	return append(out, payload...), nil
}

// MarshalProto encodes a single event message without framing.
func MarshalProto(e event.Event) ([]byte, error) {
	if e == nil {
		return nil, &Error{Op: "marshal proto", Err: errors.New("nil event")}
	}
	raw, err := event.ToJSON(e)
	if err != nil {
		return nil, &Error{Op: "marshal proto", Err: err}
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &Error{Op: "marshal proto", Err: err}
	}

	t := e.Type()
	b := protowire.AppendTag(nil, fieldType, protowire.VarintType)
	b = protowire.AppendVarint(b, typeNumbers[t])
	if ts := e.Base().Timestamp; ts != nil {
		b = protowire.AppendTag(b, fieldTimestamp, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(*ts))
	}
	if rv, ok := fields["rawEvent"]; ok {
		if b, err = appendValue(b, fieldRawEvent, rv); err != nil {
			return nil, &Error{Op: "marshal proto", Err: err}
		}
	}
	for i, f := range protoFields[t] {
		value, ok := fields[f.name]
		if !ok {
			continue
		}
		num := firstField + protowire.Number(i)
		switch f.kind {
		case kindString:
			text, _ := value.(string)
			b = protowire.AppendTag(b, num, protowire.BytesType)
			b = protowire.AppendString(b, text)
		case kindValue:
			if b, err = appendValue(b, num, value); err != nil {
				return nil, &Error{Op: "marshal proto", Err: fmt.Errorf("%s: %w", f.name, err)}
			}
		}
	}
	if len(b) > MaxEventSize {
		return nil, &TooLargeError{Type: t, Size: len(b), Limit: MaxEventSize}
	}
	return b, nil
}

func appendValue(b []byte, num protowire.Number, x any) ([]byte, error) {
	pv, err := structpb.NewValue(x)
	if err != nil {
		return nil, err
	}
	enc, err := proto.MarshalOptions{Deterministic: true}.Marshal(pv)
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, enc), nil
}

// UnmarshalProto decodes a single event message without framing.
func UnmarshalProto(b []byte) (event.Event, error) {
	fail := func(err error) (event.Event, error) {
		return nil, &Error{Op: "unmarshal proto", Err: err}
	}
	fields := map[string]any{}
	var (
		t       event.EventType
		pending []struct {
			num protowire.Number
			raw []byte
		}
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fail(protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == fieldType && typ == protowire.VarintType:
			x, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fail(protowire.ParseError(n))
			}
			b = b[n:]
			if x == 0 || x > uint64(len(event.Types)) {
				return fail(fmt.Errorf("unknown event type number %d", x))
			}
			t = event.Types[x-1]
		case num == fieldTimestamp && typ == protowire.Fixed64Type:
			x, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return fail(protowire.ParseError(n))
			}
			b = b[n:]
			fields["timestamp"] = math.Float64frombits(x)
		case typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fail(protowire.ParseError(n))
			}
			b = b[n:]
			pending = append(pending, struct {
				num protowire.Number
				raw []byte
			}{num, raw})
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fail(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	if t == "" {
		return fail(errors.New("missing event type"))
	}
	fields["type"] = string(t)
	layout := protoFields[t]
	for _, p := range pending {
		if p.num == fieldRawEvent {
			rv, err := decodeValue(p.raw)
			if err != nil {
				return fail(err)
			}
			fields["rawEvent"] = rv
			continue
		}
		idx := int(p.num - firstField)
		if idx < 0 || idx >= len(layout) {
			continue
		}
		f := layout[idx]
		if f.kind == kindString {
			fields[f.name] = string(p.raw)
			continue
		}
		fv, err := decodeValue(p.raw)
		if err != nil {
			return fail(fmt.Errorf("%s: %w", f.name, err))
		}
		fields[f.name] = fv
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fail(err)
	}
	return event.FromJSON(raw)
}

func decodeValue(raw []byte) (any, error) {
	var pv structpb.Value
	if err := proto.Unmarshal(raw, &pv); err != nil {
		return nil, err
	}
	return pv.AsInterface(), nil
}

// ReadProtoFrame reads one length-prefixed message from r. io.EOF is returned
// only when r ends cleanly between frames.
func ReadProtoFrame(r io.Reader) ([]byte, error) {
	var hdr [frameHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &Error{Op: "read frame", Err: err}
		}
		return nil, err
	}
	size := binary.BigEndian.Uint32(hdr[:])
	if size > MaxEventSize {
		return nil, &TooLargeError{Size: int(size), Limit: MaxEventSize}
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, &Error{Op: "read frame", Err: err}
	}
	return buf, nil
}

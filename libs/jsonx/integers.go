package jsonx

import (
	"reflect"
	"strconv"
	"strings"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// int64Extension binds int64 and uint64 fields to a codec that writes
// them as decimal strings and reads both strings and numbers.
// A field tagged `,string` keeps the jsoniter behavior.
type int64Extension struct {
	jsoniter.DummyExtension
}

func (e *int64Extension) UpdateStructDescriptor(desc *jsoniter.StructDescriptor) {
	for _, binding := range desc.Fields {
		var codec jsoniter.ValDecoder
		switch binding.Field.Type().Kind() {
		case reflect.Int64:
			codec = int64Codec{}
		case reflect.Uint64:
			codec = uint64Codec{}
		default:
			continue
		}
		if hasStringOption(binding.Field.Tag().Get("json")) {
			continue
		}
		binding.Decoder = codec
		binding.Encoder = codec.(jsoniter.ValEncoder)
	}
}

func hasStringOption(tag string) bool {
	opts := strings.Split(tag, ",")
	for _, opt := range opts[1:] {
		if opt == "string" {
			return true
		}
	}
	return false
}

type int64Codec struct{}

func (int64Codec) IsEmpty(ptr unsafe.Pointer) bool {
	return *(*int64)(ptr) == 0
}

func (int64Codec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	stream.WriteString(strconv.FormatInt(*(*int64)(ptr), 10))
}

func (int64Codec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		s := iter.ReadString()
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			iter.ReportError("decode int64", err.Error())
			return
		}
		*(*int64)(ptr) = v
	case jsoniter.NumberValue:
		*(*int64)(ptr) = iter.ReadInt64()
	default:
		iter.Skip()
	}
}

type uint64Codec struct{}

func (uint64Codec) IsEmpty(ptr unsafe.Pointer) bool {
	return *(*uint64)(ptr) == 0
}

func (uint64Codec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	stream.WriteString(strconv.FormatUint(*(*uint64)(ptr), 10))
}

func (uint64Codec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		s := iter.ReadString()
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			iter.ReportError("decode uint64", err.Error())
			return
		}
		*(*uint64)(ptr) = v
	case jsoniter.NumberValue:
		*(*uint64)(ptr) = iter.ReadUint64()
	default:
		iter.Skip()
	}
}

var (
	_ jsoniter.ValEncoder = int64Codec{}
	_ jsoniter.ValDecoder = int64Codec{}
	_ jsoniter.ValEncoder = uint64Codec{}
	_ jsoniter.ValDecoder = uint64Codec{}
)

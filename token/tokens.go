package token

import (
	"fmt"
)

// A Token is an item in a stream that encodes a JSON value.
// For example, the JSON value
//
//	{"id": 123, "tags": ["new"]}
//
// is represented by the stream of tokens (with all the pack and stream
// options of the parser on):
//
//	{            -> StartObject
//	"id"         -> StartKey, StringChunk("id"), EndKey, KeyValue("id")
//	123          -> StartNumber, NumberChunk("123"), EndNumber, NumberValue("123")
//	"tags"       -> StartKey, StringChunk("tags"), EndKey, KeyValue("tags")
//	[            -> StartArray
//	"new"        -> StartString, StringChunk("new"), EndString, StringValue("new")
//	]            -> EndArray
//	}            -> EndObject
//
// Fragment tokens (StringChunk, NumberChunk) may occur several times for one
// value, depending on how the input was split.  Packed tokens (KeyValue,
// StringValue, NumberValue) carry the whole value once it is known.
type Token struct {
	Kind Kind

	// Value is the payload of the token:
	// - string for StringChunk, NumberChunk, KeyValue, StringValue and
	//   NumberValue (numbers are kept as their literal text)
	// - bool for TrueValue and FalseValue
	// - nil otherwise
	Value any
}

// New returns a token with no payload.
func New(kind Kind) Token {
	return Token{Kind: kind}
}

// WithValue returns a token carrying a payload.
func WithValue(kind Kind, value any) Token {
	return Token{Kind: kind, Value: value}
}

// Text returns the payload of a token as a string, or "" if the payload is
// not a string.
func (t Token) Text() string {
	s, _ := t.Value.(string)
	return s
}

func (t Token) String() string {
	switch t.Kind {
	case StringChunk, NumberChunk, KeyValue, StringValue, NumberValue:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
	case TrueValue, FalseValue, NullValue:
		return t.Kind.String()
	default:
		if t.Value != nil {
			return fmt.Sprintf("%s(%v)", t.Kind, t.Value)
		}
		return t.Kind.String()
	}
}

// Kind tells what a Token stands for.
type Kind uint8

const (
	Invalid Kind = iota

	StartObject
	EndObject
	StartArray
	EndArray
	StartKey
	EndKey
	StartString
	EndString
	StartNumber
	EndNumber

	StringChunk
	NumberChunk

	KeyValue
	StringValue
	NumberValue
	NullValue
	TrueValue
	FalseValue
)

var kindNames = [...]string{
	Invalid:     "invalid",
	StartObject: "startObject",
	EndObject:   "endObject",
	StartArray:  "startArray",
	EndArray:    "endArray",
	StartKey:    "startKey",
	EndKey:      "endKey",
	StartString: "startString",
	EndString:   "endString",
	StartNumber: "startNumber",
	EndNumber:   "endNumber",
	StringChunk: "stringChunk",
	NumberChunk: "numberChunk",
	KeyValue:    "keyValue",
	StringValue: "stringValue",
	NumberValue: "numberValue",
	NullValue:   "nullValue",
	TrueValue:   "trueValue",
	FalseValue:  "falseValue",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsStart is true for the kinds that open a composite (object, array, key,
// string, number).
func (k Kind) IsStart() bool {
	switch k {
	case StartObject, StartArray, StartKey, StartString, StartNumber:
		return true
	}
	return false
}

// IsEnd is true for the kinds that close a composite.
func (k Kind) IsEnd() bool {
	switch k {
	case EndObject, EndArray, EndKey, EndString, EndNumber:
		return true
	}
	return false
}

// IsPacked is true for the kinds that carry a whole value.
func (k Kind) IsPacked() bool {
	switch k {
	case KeyValue, StringValue, NumberValue, NullValue, TrueValue, FalseValue:
		return true
	}
	return false
}

// Closer returns the kind that closes a start kind, or Invalid.
func (k Kind) Closer() Kind {
	switch k {
	case StartObject:
		return EndObject
	case StartArray:
		return EndArray
	case StartKey:
		return EndKey
	case StartString:
		return EndString
	case StartNumber:
		return EndNumber
	}
	return Invalid
}

// Packed returns the packed kind that may follow the end of a streamed value
// (e.g. StringValue after EndString), or Invalid.
func (k Kind) Packed() Kind {
	switch k {
	case EndKey:
		return KeyValue
	case EndString:
		return StringValue
	case EndNumber:
		return NumberValue
	}
	return Invalid
}

var (
	TrueToken  = Token{Kind: TrueValue, Value: true}
	FalseToken = Token{Kind: FalseValue, Value: false}
	NullToken  = Token{Kind: NullValue}
)

// Bool returns the token for a JSON boolean.
func Bool(b bool) Token {
	if b {
		return TrueToken
	}
	return FalseToken
}

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestKindString tests the names of token kinds
func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{StartObject, "startObject"},
		{EndArray, "endArray"},
		{StringChunk, "stringChunk"},
		{KeyValue, "keyValue"},
		{FalseValue, "falseValue"},
		{Kind(200), "Kind(200)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

// TestTokenString tests the rendering of tokens
func TestTokenString(t *testing.T) {
	tests := []struct {
		name     string
		tok      Token
		expected string
	}{
		{"structural", New(StartArray), "startArray"},
		{"chunk", WithValue(StringChunk, "ab"), `stringChunk("ab")`},
		{"number", WithValue(NumberValue, "1e3"), `numberValue("1e3")`},
		{"true", TrueToken, "trueValue"},
		{"null", NullToken, "nullValue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.tok.String())
		})
	}
}

// TestKindClasses tests start/end/packed classification
func TestKindClasses(t *testing.T) {
	for _, k := range []Kind{StartObject, StartArray, StartKey, StartString, StartNumber} {
		assert.True(t, k.IsStart(), "%s", k)
		assert.False(t, k.IsEnd() || k.IsPacked(), "%s", k)
		assert.True(t, k.Closer().IsEnd(), "%s: closer %s", k, k.Closer())
	}
	for _, k := range []Kind{KeyValue, StringValue, NumberValue, NullValue, TrueValue, FalseValue} {
		assert.True(t, k.IsPacked(), "%s", k)
		assert.False(t, k.IsStart() || k.IsEnd(), "%s", k)
	}
	assert.Equal(t, StringValue, EndString.Packed())
	assert.Equal(t, NumberValue, EndNumber.Packed())
	assert.Equal(t, KeyValue, EndKey.Packed())
	assert.Equal(t, Invalid, EndObject.Packed())
}

// TestBool tests boolean tokens
func TestBool(t *testing.T) {
	assert.Equal(t, TrueToken, Bool(true))
	assert.Equal(t, FalseToken, Bool(false))
	assert.Equal(t, true, TrueToken.Value)
	assert.Equal(t, false, FalseToken.Value)
}

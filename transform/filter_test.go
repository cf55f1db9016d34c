package transform

import (
	stdjson "encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theory/jsonpath"

	"github.com/arnodel/jsonchunk/assembler"
	"github.com/arnodel/jsonchunk/encoding/json"
	"github.com/arnodel/jsonchunk/token"
)

// run tokenizes doc, passes the tokens through f and returns the output.
func run(t *testing.T, f *Filter, doc string, opts ...json.Option) []token.Token {
	t.Helper()
	toks, err := json.Tokenize(doc, opts...)
	require.NoError(t, err)
	var out token.AccumulatorStream
	for _, tok := range toks {
		f.Put(&out, tok)
	}
	f.Flush(&out)
	require.NoError(t, token.Validate(out.GetTokens()))
	return out.GetTokens()
}

// runValue is like run but assembles the output, which must be one value.
func runValue(t *testing.T, f *Filter, doc string, opts ...json.Option) any {
	t.Helper()
	var a assembler.Assembler
	for _, tok := range run(t, f, doc, opts...) {
		require.NoError(t, a.Put(tok))
	}
	require.True(t, a.Done())
	return a.Value()
}

func decode(t *testing.T, doc string) any {
	t.Helper()
	var v any
	require.NoError(t, stdjson.Unmarshal([]byte(doc), &v))
	return v
}

func topLevelKeys(keys ...string) Predicate {
	return func(path Path, tok token.Token) bool {
		if len(path) != 1 || path[0].Kind != Key {
			return false
		}
		for _, k := range keys {
			if path[0].Key == k {
				return true
			}
		}
		return false
	}
}

func TestPickExactTokens(t *testing.T) {
	f := NewPick(topLevelKeys("a", "c"), WithPackKeys(false))
	toks := run(t, f, `{"a":1,"b":true,"c":["d"]}`, json.WithPackValues(false))
	expected := []token.Token{
		token.New(token.StartObject),
		token.New(token.StartKey), token.WithValue(token.StringChunk, "a"), token.New(token.EndKey),
		token.New(token.StartNumber), token.WithValue(token.NumberChunk, "1"), token.New(token.EndNumber),
		token.New(token.StartKey), token.WithValue(token.StringChunk, "c"), token.New(token.EndKey),
		token.New(token.StartArray),
		token.New(token.StartString), token.WithValue(token.StringChunk, "d"), token.New(token.EndString),
		token.New(token.EndArray),
		token.New(token.EndObject),
	}
	assert.Equal(t, expected, toks)
}

func TestPickOddIndices(t *testing.T) {
	odd := Predicate(func(path Path, tok token.Token) bool {
		return len(path) == 1 && path[0].Index%2 == 1
	})
	for _, opts := range [][]json.Option{nil, {json.WithPackValues(false)}, {json.WithStreamValues(false)}} {
		v := runValue(t, NewPick(odd), `[1,2,3,4,5,6,7,8,9,10]`, opts...)
		assert.Equal(t, []any{2.0, 4.0, 6.0, 8.0, 10.0}, v)
	}
}

func TestPick(t *testing.T) {
	doc := `{"a": {"b": 1, "c": [1, 2, {"d": 3, "e": [4]}]}, "f": "x", "g": [[5, 6], [7]]}`
	tests := []struct {
		name     string
		matcher  Matcher
		opts     []Option
		expected string
	}{
		{"top-level key", PathPrefix("f"), nil, `{"f": "x"}`},
		{"deep key", PathPrefix("a.c.2.d"), nil, `{"a": {"c": [{"d": 3}]}}`},
		{"whole subtree", PathPrefix("a.c"), nil, `{"a": {"c": [1, 2, {"d": 3, "e": [4]}]}}`},
		{"element of a nested array", PathPrefix("a.c.2.e.0"), nil, `{"a": {"c": [{"e": [4]}]}}`},
		{"siblings", PathPattern(regexp.MustCompile(`^a\.(b|c\.0)$`)), nil, `{"a": {"b": 1, "c": [1]}}`},
		{"nested arrays", PathPattern(regexp.MustCompile(`^g\.\d+\.0$`)), nil, `{"g": [[5], [7]]}`},
		{"separator", PathPrefix("a/c/1"), []Option{WithSeparator("/")}, `{"a": {"c": [2]}}`},
		{"once", PathPattern(regexp.MustCompile(`^g\.\d+\.\d+$`)), []Option{WithOnce()}, `{"g": [[5]]}`},
		{"whole document", PathPrefix(""), nil, doc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, opts := range [][]json.Option{nil, {json.WithPackValues(false)}, {json.WithStreamValues(false)}} {
				v := runValue(t, NewPick(tt.matcher, tt.opts...), doc, opts...)
				assert.Equal(t, decode(t, tt.expected), v)
			}
		})
	}
}

func TestPickNothing(t *testing.T) {
	toks := run(t, NewPick(PathPrefix("nope")), `{"a": [1, 2]}`)
	assert.Empty(t, toks)
}

func TestPickSeveralDocuments(t *testing.T) {
	var values []any
	s := assembler.NewValueStreamer(false)
	for _, tok := range run(t, NewPick(PathPrefix("a")), `{"a": 1, "b": 2} {"b": 3} {"a": [4]}`, json.WithJSONStreaming(true)) {
		item, ok, err := s.Put(tok)
		require.NoError(t, err)
		if ok {
			values = append(values, item.Value)
		}
	}
	assert.Equal(t, []any{map[string]any{"a": 1.0}, map[string]any{"a": []any{4.0}}}, values)
}

func TestIgnore(t *testing.T) {
	doc := `{"a": {"b": 1, "c": [1, 2, {"d": 3}]}, "f": "x", "g": [[5, 6], [7]]}`
	tests := []struct {
		name     string
		matcher  Matcher
		opts     []Option
		expected string
	}{
		{"top-level key", PathPrefix("f"), nil, `{"a": {"b": 1, "c": [1, 2, {"d": 3}]}, "g": [[5, 6], [7]]}`},
		{"first key", PathPrefix("a"), nil, `{"f": "x", "g": [[5, 6], [7]]}`},
		{"deep key", PathPrefix("a.c.2.d"), nil, `{"a": {"b": 1, "c": [1, 2, {}]}, "f": "x", "g": [[5, 6], [7]]}`},
		{"array items", PathPattern(regexp.MustCompile(`^g\.\d+\.0$`)), nil, `{"a": {"b": 1, "c": [1, 2, {"d": 3}]}, "f": "x", "g": [[6], []]}`},
		{"once", PathPattern(regexp.MustCompile(`^g\.\d+$`)), []Option{WithOnce()}, `{"a": {"b": 1, "c": [1, 2, {"d": 3}]}, "f": "x", "g": [[7]]}`},
		{"nothing", PathPrefix("z"), nil, doc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, opts := range [][]json.Option{nil, {json.WithPackValues(false)}, {json.WithStreamValues(false)}} {
				v := runValue(t, NewIgnore(tt.matcher, tt.opts...), doc, opts...)
				assert.Equal(t, decode(t, tt.expected), v)
			}
		})
	}
}

func TestIgnoreWholeDocument(t *testing.T) {
	assert.Empty(t, run(t, NewIgnore(PathPrefix("")), `[1, 2]`))
}

func TestIgnorePassesTokensThrough(t *testing.T) {
	doc := `{"a": [1, "x", {"b": null}], "c": true}`
	tests := []struct {
		name       string
		parserOpts []json.Option
		filterOpts []Option
	}{
		{"pack and stream", nil, nil},
		{"stream only", []json.Option{json.WithPackValues(false)}, []Option{WithPackKeys(false)}},
		{"pack only", []json.Option{json.WithStreamValues(false)}, []Option{WithStreamKeys(false)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := json.Tokenize(doc, tt.parserOpts...)
			require.NoError(t, err)
			assert.Equal(t, toks, run(t, NewIgnore(PathPrefix("nope"), tt.filterOpts...), doc, tt.parserOpts...))
		})
	}
}

// Picking and ignoring the same values split the entries of an object into
// two disjoint sets that make up the whole object.
func TestPickIgnoreComplementarity(t *testing.T) {
	doc := `{"a": 1, "b": [2, {"x": 3}], "c": {"d": 3}, "e": "x", "f": null}`
	m := topLevelKeys("b", "e", "f")

	picked := runValue(t, NewPick(m), doc).(map[string]any)
	ignored := runValue(t, NewIgnore(m), doc).(map[string]any)
	whole := decode(t, doc).(map[string]any)

	assert.Len(t, picked, 3)
	assert.Len(t, ignored, 2)
	for k, v := range whole {
		pv, inPicked := picked[k]
		iv, inIgnored := ignored[k]
		assert.True(t, inPicked != inIgnored, "key %q", k)
		if inPicked {
			assert.Equal(t, v, pv)
		} else {
			assert.Equal(t, v, iv)
		}
	}
}

func TestReplace(t *testing.T) {
	doc := `{"a": {"b": 1, "c": [1, 2]}, "f": "x"}`
	tests := []struct {
		name        string
		matcher     Matcher
		replacement Replacement
		expected    string
	}{
		{"default is null", PathPrefix("a.b"), nil, `{"a": {"b": null, "c": [1, 2]}, "f": "x"}`},
		{"static", PathPrefix("a.c"), StaticReplacement(token.WithValue(token.StringValue, "X")), `{"a": {"b": 1, "c": "X"}, "f": "x"}`},
		{
			"several tokens",
			PathPrefix("f"),
			StaticReplacement(token.New(token.StartArray), token.TrueToken, token.New(token.EndArray)),
			`{"a": {"b": 1, "c": [1, 2]}, "f": [true]}`,
		},
		{"empty removes", PathPrefix("a"), StaticReplacement(), `{"f": "x"}`},
		{
			"depends on path",
			PathPattern(regexp.MustCompile(`^a\.c\.\d+$`)),
			func(path Path, tok token.Token) []token.Token {
				return []token.Token{token.WithValue(token.StringValue, path.Join("/"))}
			},
			`{"a": {"b": 1, "c": ["a/c/0", "a/c/1"]}, "f": "x"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, opts := range [][]json.Option{nil, {json.WithPackValues(false)}, {json.WithStreamValues(false)}} {
				v := runValue(t, NewReplace(tt.matcher, tt.replacement), doc, opts...)
				assert.Equal(t, decode(t, tt.expected), v)
			}
		})
	}
}

// Replacing values with a single token keeps the container kind and the
// number of entries.
func TestReplacePreservesShape(t *testing.T) {
	docs := []string{
		`[1, {"a": 2}, "x", [3], null]`,
		`{"a": 1, "b": {"c": 2}, "d": [3, 4]}`,
	}
	depth1 := Predicate(func(path Path, tok token.Token) bool { return len(path) == 1 })
	for _, doc := range docs {
		v := runValue(t, NewReplace(depth1, StaticReplacement(token.TrueToken)), doc)
		switch orig := decode(t, doc).(type) {
		case []any:
			arr, ok := v.([]any)
			require.True(t, ok)
			assert.Len(t, arr, len(orig))
		case map[string]any:
			obj, ok := v.(map[string]any)
			require.True(t, ok)
			assert.Len(t, obj, len(orig))
			for k := range orig {
				assert.Equal(t, true, obj[k])
			}
		}
	}
}

// Picking values then querying the result gives the same values as querying
// the whole document.
func TestPickAgreesWithJSONPath(t *testing.T) {
	doc := `{
		"store": {
			"book": [
				{"title": "Sayings", "price": 8.95, "tags": ["a"]},
				{"title": "Sword", "price": 12.99},
				{"title": "Moby Dick", "isbn": "0-553", "price": 8.99}
			],
			"bicycle": {"color": "red", "price": 399}
		}
	}`
	tests := []struct {
		pattern string
		query   string
	}{
		{`^store\.book\.\d+\.title$`, `$.store.book[*].title`},
		{`^store\.book\.\d+\.title$`, `$..title`},
		{`^store\.(book\.\d+|bicycle)\.price$`, `$..price`},
		{`^store\.bicycle$`, `$.store.bicycle`},
		{`^store\.book\.\d+\.isbn$`, `$.store.book[*].isbn`},
	}
	whole := decode(t, doc)
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			query, err := jsonpath.Parse(tt.query)
			require.NoError(t, err)
			picked := runValue(t, NewPick(PathPattern(regexp.MustCompile(tt.pattern))), doc)
			assert.ElementsMatch(t, []any(query.Select(whole)), []any(query.Select(picked)))
		})
	}
}

func TestFilterSplitInput(t *testing.T) {
	doc := `{"key with \"quotes\"": [1, 22, 333], "other": {"n": -1.5e3}}`
	m := PathPattern(regexp.MustCompile(`^key with "quotes"\.1$|^other\.n$`))
	expected := runValue(t, NewPick(m), doc)
	assert.Equal(t, decode(t, `{"key with \"quotes\"": [22], "other": {"n": -1.5e3}}`), expected)

	for i := 0; i <= len(doc); i++ {
		p := json.NewParser()
		f := NewPick(m)
		var out token.AccumulatorStream
		for _, chunk := range []string{doc[:i], doc[i:]} {
			toks, err := p.Push(chunk)
			require.NoError(t, err)
			for _, tok := range toks {
				f.Put(&out, tok)
			}
		}
		toks, err := p.Finish()
		require.NoError(t, err)
		for _, tok := range toks {
			f.Put(&out, tok)
		}
		f.Flush(&out)

		var a assembler.Assembler
		for _, tok := range out.GetTokens() {
			require.NoError(t, a.Put(tok))
		}
		assert.Equal(t, expected, a.Value(), "split at %d", i)
	}
}

func TestFilterKeyOptions(t *testing.T) {
	doc := `{"a": 1}`
	tests := []struct {
		name     string
		opts     []Option
		expected []token.Token
	}{
		{
			"pack only",
			[]Option{WithStreamKeys(false)},
			[]token.Token{token.New(token.StartObject), token.WithValue(token.KeyValue, "a"), token.WithValue(token.NumberValue, "1"), token.New(token.EndObject)},
		},
		{
			"stream and pack",
			nil,
			[]token.Token{
				token.New(token.StartObject),
				token.New(token.StartKey), token.WithValue(token.StringChunk, "a"), token.New(token.EndKey), token.WithValue(token.KeyValue, "a"),
				token.WithValue(token.NumberValue, "1"),
				token.New(token.EndObject),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := run(t, NewPick(PathPrefix("a"), tt.opts...), doc, json.WithStreamValues(false))
			assert.Equal(t, tt.expected, toks)
		})
	}
}

// Objects may repeat a key; each value must be written after its own key.
func TestFilterRepeatedKeys(t *testing.T) {
	so, eo := token.New(token.StartObject), token.New(token.EndObject)
	kv := func(k string) token.Token { return token.WithValue(token.KeyValue, k) }
	nv := func(n string) token.Token { return token.WithValue(token.NumberValue, n) }
	null := token.NullToken

	nested := []token.Token{so, kv("a"), so, kv("b"), nv("1"), eo, kv("a"), so, kv("b"), nv("2"), eo, eo}
	tests := []struct {
		name     string
		filter   func(...Option) *Filter
		doc      string
		expected []token.Token
	}{
		{
			"ignore nothing",
			func(opts ...Option) *Filter { return NewIgnore(PathPrefix("zzz"), opts...) },
			`{"a": 1, "a": 2}`,
			[]token.Token{so, kv("a"), nv("1"), kv("a"), nv("2"), eo},
		},
		{
			"pick",
			func(opts ...Option) *Filter { return NewPick(PathPrefix("a"), opts...) },
			`{"a": 1, "a": 2}`,
			[]token.Token{so, kv("a"), nv("1"), kv("a"), nv("2"), eo},
		},
		{
			"replace",
			func(opts ...Option) *Filter { return NewReplace(PathPrefix("a"), nil, opts...) },
			`{"a": 1, "a": 2}`,
			[]token.Token{so, kv("a"), null, kv("a"), null, eo},
		},
		{
			"max depth",
			func(opts ...Option) *Filter { return NewIgnore(MaxDepth(1), opts...) },
			`{"a": 1, "a": 2}`,
			[]token.Token{so, kv("a"), nv("1"), kv("a"), nv("2"), eo},
		},
		{
			"pick below repeated key",
			func(opts ...Option) *Filter { return NewPick(PathPrefix("a.b"), opts...) },
			`{"a": {"b": 1}, "a": {"b": 2}}`,
			nested,
		},
		{
			"ignore below repeated key",
			func(opts ...Option) *Filter { return NewIgnore(PathPrefix("a.c"), opts...) },
			`{"a": {"b": 1, "c": 0}, "a": {"b": 2}}`,
			nested,
		},
		{
			"scalar then object under the same key",
			func(opts ...Option) *Filter {
				m := Predicate(func(path Path, tok token.Token) bool {
					s := path.String()
					return s == "a.b" || s == "a" && tok.Kind != token.StartObject
				})
				return NewPick(m, opts...)
			},
			`{"a": 1, "a": {"b": 2}}`,
			[]token.Token{so, kv("a"), nv("1"), kv("a"), so, kv("b"), nv("2"), eo, eo},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := run(t, tt.filter(WithStreamKeys(false)), tt.doc, json.WithStreamValues(false))
			assert.Equal(t, tt.expected, toks)

			// Same with every kind of token
			toks = run(t, tt.filter(), tt.doc)
			var keys, values int
			for _, tok := range toks {
				switch tok.Kind {
				case token.KeyValue:
					keys++
				case token.StartObject, token.StartArray, token.StartString, token.StartNumber, token.NullValue, token.TrueValue, token.FalseValue:
					values++
				}
			}
			assert.Equal(t, values, keys+1, "one key per value below the top level")
		})
	}
}

func TestReplacementKeepsPath(t *testing.T) {
	var paths []Path
	r := func(path Path, tok token.Token) []token.Token {
		paths = append(paths, path)
		return []token.Token{token.NullToken}
	}
	run(t, NewReplace(PathPattern(regexp.MustCompile(`^a\.\d+$`)), r), `{"a": [1, 2], "b": {"c": 3}}`)
	require.Len(t, paths, 2)
	assert.Equal(t, "a.0", paths[0].String())
	assert.Equal(t, "a.1", paths[1].String())
}

func TestFilterTransform(t *testing.T) {
	toks, err := json.Tokenize(`[1, [2], 3]`)
	require.NoError(t, err)
	in := make(chan token.Token)
	go func() {
		defer close(in)
		for _, tok := range toks {
			in <- tok
		}
	}()
	out := token.Collect(token.TransformStream(in, NewIgnore(PathPrefix("1"))))
	var a assembler.Assembler
	for _, tok := range out {
		require.NoError(t, a.Put(tok))
	}
	assert.Equal(t, []any{1.0, 3.0}, a.Value())
}

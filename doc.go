// Package jsonchunk implements routines for processing JSON input that arrives
// in chunks of any size, without ever holding the whole document in memory.
//
// The package is organized into several sub-packages:
//
//   - token: the tokens a JSON document is encoded into, and the stream and
//     pipeline plumbing that moves them around
//   - encoding/json: the incremental Parser, a Decoder reading from an
//     io.Reader and an Encoder writing tokens back as JSON text
//   - transform: the path filter engine with its pick, ignore and replace
//     policies, and a few built-in transforms
//   - assembler: folds tokens back into Go values, either whole documents or
//     the items of a top-level array or object as each one completes
//   - jsonl: JSON Lines input and output
//
// These can be combined to form a processing pipeline:
//
//	decode JSON -> filter_1 -> ... -> filter_n -> encode JSON
//
// The Parser is resumable: each call to Push consumes as much of the input
// as it can and returns the tokens found so far, keeping whatever is
// incomplete (half a literal, an escape sequence cut in two, a number that
// may continue) for the next call.  Splitting the same input differently
// gives the same tokens, apart from how string and number fragments are cut.
//
// Filters track the path of each value (the keys and array indices leading to
// it) and rewrite the stream around the values that match, opening and
// closing just the containers needed for the output to stay well formed.
// For example, picking "a.b" in
//
//	{"a": {"b": 1, "c": 2}, "d": 3}
//
// gives
//
//	{"a": {"b": 1}}
//
// The CLI utility is in the directory cmd/jpick. You can install it with:
//
//	go install github.com/arnodel/jsonchunk/cmd/jpick
package jsonchunk

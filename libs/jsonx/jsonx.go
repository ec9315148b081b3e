package jsonx

import jsoniter "github.com/json-iterator/go"

var _jsonx = jsoniter.Config{
	IndentionStep:          2,
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// Marshal and the others encode 64-bit integers as decimal strings and
// struct field names in lowerCamelCase, so that the documents of genesis,
// ledgers and queries are read the same by javascript clients.
var (
	Marshal       = _jsonx.Marshal
	Unmarshal     = _jsonx.Unmarshal
	MarshalIndent = _jsonx.MarshalIndent
	NewEncoder    = _jsonx.NewEncoder
	NewDecoder    = _jsonx.NewDecoder
)

func init() {
	jsoniter.RegisterExtension(&int64Extension{})
	jsoniter.RegisterExtension(&lowerCamelExtension{})
}

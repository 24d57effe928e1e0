package broadcast

import "encoding/json"

// Codec converts messages to and from their wire form for transcoding.
// Structurally-compatible types must round-trip losslessly for shared field
// names; unknown fields are dropped, missing fields decode to zero values.
type Codec interface {
	// Marshal encodes a value into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes bytes into the value pointed to by v.
	Unmarshal(data []byte, v any) error
}

// jsonCodec is the default Codec. JSON matches fields by name (or json tag),
// silently drops fields absent in the destination, and leaves fields absent
// in the source at their zero value: exactly the lossy structural semantics
// cross-module transcoding relies on.
type jsonCodec struct{}

// JSONCodec returns the default JSON-based codec.
func JSONCodec() Codec {
	return jsonCodec{}
}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

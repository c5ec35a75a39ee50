// Package codec provides the value serialization used when writing cache
// entries and collections to a kvstore.Store. JSON is the default; msgpack
// is available as a compact alternative.
package codec

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec serializes values into the opaque blobs the storage boundary expects.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return "json" }

type msgpackCodec struct{}

func (msgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
func (msgpackCodec) Name() string                       { return "msgpack" }

// JSON returns the default JSON codec.
func JSON() Codec { return jsonCodec{} }

// Msgpack returns a msgpack codec.
func Msgpack() Codec { return msgpackCodec{} }

// Remarshal converts src into dst by round-tripping through the codec.
// It is used to recover concrete types for values that were decoded into
// generic containers, e.g. cache entries hydrated from storage.
func Remarshal(c Codec, src, dst any) error {
	data, err := c.Marshal(src)
	if err != nil {
		return err
	}
	return c.Unmarshal(data, dst)
}

package audit

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec defines the serialization contract for audit records and
// argument snapshots. Implementations handle encoding/decoding records
// to/from bytes.
type Codec interface {
	// Encode serializes a record to bytes.
	Encode(rec *Record) ([]byte, error)

	// Decode deserializes bytes into a record.
	Decode(data []byte) (*Record, error)

	// EncodeArgs serializes an argument snapshot.
	EncodeArgs(args []any) ([]byte, error)

	// Name returns the codec identifier (e.g., "json", "msgpack").
	Name() string
}

// CodecName constants for codec selection.
const (
	CodecNameJSON    = "json"
	CodecNameMsgpack = "msgpack"
)

// GetCodec returns a codec by name. Defaults to JSON.
func GetCodec(name string) Codec {
	switch name {
	case CodecNameMsgpack:
		return &MsgpackCodec{}
	case CodecNameJSON, "":
		return &JSONCodec{}
	default:
		return &JSONCodec{}
	}
}

// JSONCodec encodes/decodes audit records as JSON.
type JSONCodec struct{}

func (c *JSONCodec) Encode(rec *Record) ([]byte, error) {
	return json.Marshal(rec)
}

func (c *JSONCodec) Decode(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *JSONCodec) EncodeArgs(args []any) ([]byte, error) {
	return json.Marshal(args)
}

func (c *JSONCodec) Name() string { return CodecNameJSON }

// MsgpackCodec encodes/decodes audit records as MessagePack.
type MsgpackCodec struct{}

func (c *MsgpackCodec) Encode(rec *Record) ([]byte, error) {
	return msgpack.Marshal(rec)
}

func (c *MsgpackCodec) Decode(data []byte) (*Record, error) {
	var r Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *MsgpackCodec) EncodeArgs(args []any) ([]byte, error) {
	return msgpack.Marshal(args)
}

func (c *MsgpackCodec) Name() string { return CodecNameMsgpack }

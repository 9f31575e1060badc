package network

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
)

// EncodeMessage builds the {"name": args} JSON shape used by the contract.
// A nil args value encodes as an empty object.
func EncodeMessage(name string, args interface{}) ([]byte, error) {
	if args == nil {
		args = struct{}{}
	}

	return json.Marshal(map[string]interface{}{name: args})
}

// SplitMessage returns the single top-level key of a contract message and its body
func SplitMessage(msg []byte) (string, []byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return "", nil, ErrInvalidMessage
	}

	if len(fields) != 1 {
		return "", nil, ErrInvalidMessage
	}

	for name, body := range fields {
		return name, bytes.TrimSpace(body), nil
	}

	return "", nil, ErrInvalidMessage
}

// CallData encodes a contract message as a MultiversX call: function@hex(body)
func CallData(msg []byte) (string, error) {
	name, body, err := SplitMessage(msg)
	if err != nil {
		return "", err
	}

	return name + "@" + hex.EncodeToString(body), nil
}

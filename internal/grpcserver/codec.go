package grpcserver

import (
	"encoding/json"
)

// Codec carries messages as JSON so the service needs no generated types.
// Clients must dial with grpc.ForceCodec(Codec{}).
type Codec struct{}

func (Codec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}

	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return "json"
}

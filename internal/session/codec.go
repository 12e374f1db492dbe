package session

import (
	"encoding/json"
	"fmt"
)

// blob is the persisted shape: only the user slice is whitelisted.
type blob struct {
	User State `json:"user"`
}

func encode(s State) ([]byte, error) {
	data, err := json.Marshal(blob{User: s})
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func decode(data []byte, version int) (State, error) {
	if version != persistVersion {
		return State{}, fmt.Errorf("unsupported session version %d", version)
	}
	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return State{}, fmt.Errorf("decode session: %w", err)
	}
	if !b.User.Authenticated() {
		return State{}, nil
	}
	return b.User, nil
}

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NodeID identifies a trace node. On the wire it is a string, but numeric ids
// are accepted because several producers emit database primary keys.
type NodeID string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NodeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("node id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("node id must be a string or number: %w", err)
	}
	*id = NodeID(n.String())
	return nil
}

// Node is a location, vehicle or entity a lot can be associated with.
type Node struct {
	ID   NodeID `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Link is a timestamped transition of a lot from one node to another.
// Timestamp is compared lexically, so producers should emit RFC 3339.
type Link struct {
	Source    NodeID `json:"source"`
	Target    NodeID `json:"target"`
	Timestamp string `json:"timestamp"`
}

// Trace is the full node/link dataset for one lot's history.
type Trace struct {
	LotID  string    `json:"lot_id,omitempty"`
	Status LotStatus `json:"status,omitempty"`
	Nodes  []Node    `json:"nodes"`
	Links  []Link    `json:"links"`
}

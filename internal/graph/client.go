// Package graph is the Cypher client used by the lot repository. Lots,
// trace nodes and movements live in a Neo4j database reached over Bolt.
package graph

import (
	"context"
	"errors"
)

// Client defines the minimal contract required by the repository to run
// Cypher statements.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result holds the records returned by one statement, in query order.
type Result struct {
	Records []Record
}

// First returns the first record, if any.
func (r Result) First() (Record, bool) {
	if len(r.Records) == 0 {
		return nil, false
	}
	return r.Records[0], true
}

// Record maps the RETURN aliases of a statement to their values.
type Record map[string]any

// Options configures the Bolt connection. Database may be empty to use the
// server default.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")

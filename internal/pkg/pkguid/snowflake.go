package pkguid

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/bwmarrin/snowflake"
)

// Epoch is the millisecond epoch of review event IDs, 2026-01-01T00:00:00Z.
const Epoch int64 = 1767225600000

// Snowflake generates review event IDs for one node.
type Snowflake struct {
	node *snowflake.Node
	id   int64
}

// NewSnowflake returns a generator for nodeID. A negative nodeID picks a
// random node, which is fine for a single replica.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 {
		n, err := rand.Int(rand.Reader, big.NewInt(1<<snowflake.NodeBits))
		if err != nil {
			return nil, fmt.Errorf("pick snowflake node: %w", err)
		}
		nodeID = n.Int64()
	}

	snowflake.Epoch = Epoch

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node, id: nodeID}, nil
}

// Generate returns a new unique event ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

// Node returns the node number embedded in every generated ID.
func (s *Snowflake) Node() int64 {
	return s.id
}

package frost

import (
	"fmt"

	"threshold.network/promise/curve"
	"threshold.network/promise/ids"
)

// Context ("FrostPubKeyContext") holds a single epoch's immutable public
// artifacts: the verifying key, every vote's verifying share, and the
// node-to-votes grouping used to pick a signing subset. It carries no
// back-reference to the mutable SignerGroup built on top of it.
type Context struct {
	Epoch            uint64
	VerifyingKey     curve.Element
	VerifyingShares  map[Identifier]curve.Element
	IdentifierGroups map[ids.NodeID][]Identifier
	NumSigningShares int
}

// NewContextFromMatrix derives the next epoch's public context from a
// completed resharing element matrix: row 0 of column 0 is the group
// verifying key, and row v>=1 is the verifying share for VoteID v.
func NewContextFromMatrix(epoch uint64, group *ids.VoteGroup, matrix *curve.ElementMatrix, numSigningShares int) (*Context, error) {
	col0, err := matrix.GetCol(0)
	if err != nil {
		return nil, fmt.Errorf("frost: reading element matrix column 0: %w", err)
	}
	if len(col0) == 0 {
		return nil, fmt.Errorf("frost: element matrix has no rows")
	}

	verifyingShares := make(map[Identifier]curve.Element)
	identifierGroups := make(map[ids.NodeID][]Identifier)
	for _, node := range group.Nodes() {
		votes := group.Votes(node)
		idList := make([]Identifier, len(votes))
		for i, v := range votes {
			row := int(v)
			if row >= len(col0) {
				return nil, fmt.Errorf("frost: vote %d has no row in the element matrix", v)
			}
			id := ids.NumToIdentifier(uint64(v))
			verifyingShares[id] = col0[row]
			idList[i] = id
		}
		identifierGroups[node] = idList
	}

	return &Context{
		Epoch:            epoch,
		VerifyingKey:     col0[0],
		VerifyingShares:  verifyingShares,
		IdentifierGroups: identifierGroups,
		NumSigningShares: numSigningShares,
	}, nil
}

package frost

import (
	"threshold.network/promise/curve"
	"threshold.network/promise/ids"
)

// NodeSigner is the node-side, private-key-holding half of FROST signing.
// It owns one committee node's raw per-vote signing shares and the hiding/
// binding nonce secrets it privately generates, producing only public
// SigningCommitments for pre-registration and, later, a single aggregated
// signature share for a given SignTask.
//
// Named distinctly from this package's driver-side SignManager (which owns
// no private key material and is grounded on state.rs's FrostEpochState) to
// avoid the name collision: this type is the one actually grounded on
// sign_manager.rs's private-key-holding SignManager.
//
// DANGER: holds private key material (raw signing shares and nonce
// secrets). Never serialize or log a NodeSigner.
type NodeSigner struct {
	node          ids.NodeID
	signingShares []curve.Scalar

	hidingNonces  []curve.Scalar
	bindingNonces []curve.Scalar
}

// NewNodeSigner builds a signer for node holding signingShares, its raw
// per-vote shares in the same order SignerGroup.PickedIdentifiers(node)
// will later return them.
func NewNodeSigner(node ids.NodeID, signingShares []curve.Scalar) *NodeSigner {
	return &NodeSigner{node: node, signingShares: append([]curve.Scalar(nil), signingShares...)}
}

// MakeNonceCommitments samples count fresh (hiding, binding) nonce pairs,
// appending them to the node's private nonce stream, and returns their
// public commitments for submission via EpochState.ReceiveNonceCommitments.
// The pool on the driver side consumes commitments in the same append
// order, so a task's NonceIndex always lines up with this stream's index.
func (n *NodeSigner) MakeNonceCommitments(count int) ([]SigningCommitments, error) {
	out := make([]SigningCommitments, count)
	for i := 0; i < count; i++ {
		hiding, err := curve.RandomScalar()
		if err != nil {
			return nil, err
		}
		binding, err := curve.RandomScalar()
		if err != nil {
			return nil, err
		}
		n.hidingNonces = append(n.hidingNonces, hiding)
		n.bindingNonces = append(n.bindingNonces, binding)
		out[i] = SigningCommitments{
			Hiding:  curve.ScalarBaseMul(hiding),
			Binding: curve.ScalarBaseMul(binding),
		}
	}
	return out, nil
}

// Sign produces this node's aggregated signature share for task, selecting
// the node's private nonce pair at task.NonceIndex() and delegating the
// actual Schnorr response computation to SignTask.Sign.
func (n *NodeSigner) Sign(task *SignTask) (curve.Scalar, error) {
	idx := task.NonceIndex()
	if idx < 0 || idx >= len(n.hidingNonces) {
		return curve.Scalar{}, ErrInconsistentNonceCommitment
	}
	return task.Sign(n.node, n.signingShares, n.hidingNonces[idx], n.bindingNonces[idx])
}

// Package frost implements FROST-style threshold Schnorr signing over the
// secp256k1 group: per-epoch public context, nonce pre-commitment, the
// signer-group Lagrange-collapsing optimization, sign tasks, and the
// top-level signing driver.
package frost

import "errors"

// Error taxonomy for the frost package (spec §7).
var (
	ErrIdentityNonceCommitment   = errors.New("frost: nonce commitment is the identity point")
	ErrUnknownNodeID             = errors.New("frost: unknown node id")
	ErrUnknownSigner             = errors.New("frost: unknown signer identifier")
	ErrUnknownSignTask           = errors.New("frost: unknown sign task id")
	ErrInvalidSignatureShare     = errors.New("frost: signature share fails verification")
	ErrInconsistentNonceCommitment = errors.New("frost: nonce commitment inconsistent with signing package")
	ErrEpochNotStart             = errors.New("frost: epoch round has not started")
	ErrTooLatePreCommit          = errors.New("frost: pre-commit submitted after epoch start from an unregistered node")
	ErrEjectedNode               = errors.New("frost: node has been ejected from the signer group")
	ErrNotEnoughSigningShares    = errors.New("frost: not enough signing shares to meet threshold")
	ErrNotEnoughUnusedPreCommit  = errors.New("frost: not enough unused pre-committed nonces")
	ErrDuplicatedSignatureShare  = errors.New("frost: signature share already received for this signer")
)

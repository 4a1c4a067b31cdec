// Package dpss implements proactive (distributed) secret resharing: the
// DKG-to-reshare-to-complete epoch state machine and the row-to-column
// handoff helper used to recover auxiliary matrix columns.
package dpss

import "errors"

// Error taxonomy for the dpss package (spec §7).
var (
	ErrInvalidReshareCommitment = errors.New("dpss: reshare commitment does not match expected target")
	ErrDkgStageNotComplete      = errors.New("dpss: dkg stage has not reached threshold votes")
	ErrDkgStageHasFinished      = errors.New("dpss: dkg stage has already transitioned to reshare")
	ErrEnoughReshareSubmit      = errors.New("dpss: reshare stage has already completed")
	ErrLastEpochNotComplete     = errors.New("dpss: previous epoch's matrix is not yet complete")
	ErrIncorrectHandoffLength   = errors.New("dpss: handoff share count does not match expected vote count")
	ErrIncorrectHandoffSender   = errors.New("dpss: handoff sender is itself a target vote id")
	ErrIncorrectHandoffShare    = errors.New("dpss: handoff share fails verification against the prior matrix")
	ErrDuplicatedHandoffShare   = errors.New("dpss: handoff share already received from this sender")
)

package frost

import (
	"crypto/sha256"
	"encoding/binary"

	"threshold.network/promise/curve"
	"threshold.network/promise/ids"
)

// SignManager is the top-level per-epoch signing driver: it owns the
// signer group, the nonce pre-commitment pool, and every in-flight sign
// task, and is the entry point nodes submit nonce commitments and
// signature shares through.
type SignManager struct {
	ctx          *Context
	group        *SignerGroup
	nonces       *NonceCommitmentPool
	tasks        *SignTaskManager
	ttlRounds    uint64
	currentRound uint64
}

// NewSignManager builds a driver over ctx, starting with initialNodes as
// the valid signer set. A sign task filed in round r times out if it has
// not completed by round r+ttlRounds.
func NewSignManager(ctx *Context, initialNodes []ids.NodeID, ttlRounds uint64) *SignManager {
	return &SignManager{
		ctx:       ctx,
		group:     NewSignerGroup(ctx, initialNodes),
		nonces:    NewNonceCommitmentPool(),
		tasks:     NewSignTaskManager(),
		ttlRounds: ttlRounds,
	}
}

// Group exposes the underlying signer group (e.g. for RemoveNodes on node
// fault detection).
func (m *SignManager) Group() *SignerGroup { return m.group }

// MakeNonceCommitments registers a batch of pre-committed nonce pairs for
// node, ahead of the epoch's signing round starting. Before the round
// starts this also admits node into the signer group (EpochState handles
// that half); once started, the pool itself rejects top-ups from nodes the
// group no longer considers valid.
func (m *SignManager) MakeNonceCommitments(node ids.NodeID, commitments []SigningCommitments) error {
	return m.nonces.Insert(node, m.group, commitments)
}

// StartRound closes nonce pre-commitment registration and computes the
// signer group's aggregated verifying shares for the epoch.
func (m *SignManager) StartRound(round uint64) error {
	m.nonces.Start()
	m.currentRound = round
	return m.group.EnsureAggregated()
}

// signTaskID derives a deterministic id from the message and the nonce
// index consumed, so the same (message, index) pair always maps to the same
// id; SignTaskManager.Insert rejects a second task under an id in flight.
func signTaskID(message []byte, nonceIndex int) SignTaskID {
	h := sha256.New()
	h.Write(message)
	var idxBuf [8]byte
	binary.BigEndian.PutUint64(idxBuf[:], uint64(nonceIndex))
	h.Write(idxBuf[:])
	var id SignTaskID
	copy(id[:], h.Sum(nil))
	return id
}

// Sign begins a new signing round for message: it pulls the next unused
// nonce commitment per valid node and constructs the SignTask that nodes
// then submit their signature shares against, filed under the current
// round's timeout bucket.
func (m *SignManager) Sign(message []byte) (SignTaskID, *SignTask, error) {
	idx, nodeCommitments, err := m.nonces.PullNextCommitments(m.group)
	if err != nil {
		return SignTaskID{}, nil, err
	}
	return m.fileSignTask(message, idx, nodeCommitments)
}

func (m *SignManager) fileSignTask(message []byte, idx int, nodeCommitments map[ids.NodeID]SigningCommitments) (SignTaskID, *SignTask, error) {
	task, err := NewSignTask(m.ctx, m.group, idx, nodeCommitments, message)
	if err != nil {
		return SignTaskID{}, nil, err
	}

	id := signTaskID(message, idx)
	if err := m.tasks.Insert(id, task, m.currentRound+m.ttlRounds); err != nil {
		return SignTaskID{}, nil, err
	}
	return id, task, nil
}

// SignOutcomeKind distinguishes the three results ReceiveSignatureShare can
// produce.
type SignOutcomeKind int

const (
	// SignPending means the task is still awaiting more shares.
	SignPending SignOutcomeKind = iota
	// SignRetry means the submitted share failed verification, the
	// offending node was ejected, and a fresh task (with a new nonce set)
	// was filed for the same message.
	SignRetry
	// SignDone means every expected node responded and the aggregate
	// signature verified.
	SignDone
)

// SignOutcome is the result of routing a signature share to its task.
type SignOutcome struct {
	Kind        SignOutcomeKind
	Signature   *Signature
	RetryTaskID SignTaskID
}

// SubmitSignatureShare routes node's share to its sign task. An invalid
// share ejects node from the signer group and opens a retry task for the
// same message with a fresh nonce set; a complete, verified aggregate
// evicts the task and returns it.
func (m *SignManager) SubmitSignatureShare(id SignTaskID, node ids.NodeID, share curve.Scalar) (SignOutcome, error) {
	task, ok := m.tasks.Get(id)
	if !ok {
		return SignOutcome{}, ErrUnknownSignTask
	}

	if err := task.InsertSignatureShare(node, share); err != nil {
		if err == ErrInvalidSignatureShare {
			message := task.Message()
			m.tasks.Remove(id)
			if removeErr := m.group.RemoveNodes([]ids.NodeID{node}); removeErr != nil {
				return SignOutcome{}, removeErr
			}
			retryID, _, retryErr := m.Sign(message)
			if retryErr != nil {
				return SignOutcome{}, retryErr
			}
			return SignOutcome{Kind: SignRetry, RetryTaskID: retryID}, nil
		}
		return SignOutcome{}, err
	}

	sig, err := task.TryAggregateSignatureShare()
	if err != nil {
		return SignOutcome{}, err
	}
	if sig != nil {
		m.tasks.Remove(id)
		return SignOutcome{Kind: SignDone, Signature: sig}, nil
	}
	return SignOutcome{Kind: SignPending}, nil
}

// RecycleTimeoutSignTasks evicts every sign task whose timeout round has
// passed, ejects nodes that contributed to none of them, and refiles a
// fresh task (new nonce set) for each evicted message. A message whose
// nonce pull or refile fails is dropped without an error; the returned ids
// are those of the tasks actually refiled.
func (m *SignManager) RecycleTimeoutSignTasks() ([]SignTaskID, error) {
	evicted, err := m.tasks.GcSignTasks(m.currentRound, m.group)
	if err != nil {
		return nil, err
	}

	retried := make([]SignTaskID, 0, len(evicted))
	for _, t := range evicted {
		idx, nodeCommitments, err := m.nonces.PullNextCommitments(m.group)
		if err != nil {
			continue
		}
		id, _, err := m.fileSignTask(t.Message(), idx, nodeCommitments)
		if err != nil {
			continue
		}
		retried = append(retried, id)
	}
	return retried, nil
}

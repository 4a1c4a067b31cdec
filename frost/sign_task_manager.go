package frost

import (
	"sync"

	"threshold.network/promise/ids"
)

// SignTaskID identifies a single in-flight sign task, typically the hash of
// its message plus nonce index.
type SignTaskID [32]byte

// SignTaskManager tracks every sign task currently awaiting signature
// shares, keyed by SignTaskID and bucketed by the round they were filed
// under, so a host-driven RoundTick can evict everything that has not
// completed by a given round.
type SignTaskManager struct {
	mu      sync.Mutex
	tasks   map[SignTaskID]*SignTask
	buckets map[uint64][]SignTaskID
}

// NewSignTaskManager returns an empty manager.
func NewSignTaskManager() *SignTaskManager {
	return &SignTaskManager{
		tasks:   make(map[SignTaskID]*SignTask),
		buckets: make(map[uint64][]SignTaskID),
	}
}

// Insert registers a new sign task under id, filed under timeoutRound,
// failing if one is already in-flight under that id.
func (m *SignTaskManager) Insert(id SignTaskID, task *SignTask, timeoutRound uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tasks[id]; exists {
		return ErrUnknownSignTask
	}
	m.tasks[id] = task
	m.buckets[timeoutRound] = append(m.buckets[timeoutRound], id)
	return nil
}

// Get returns the task registered under id, if any.
func (m *SignTaskManager) Get(id SignTaskID) (*SignTask, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	return t, ok
}

// Remove evicts id, typically once its task has produced a final signature.
func (m *SignTaskManager) Remove(id SignTaskID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
}

// GcSignTasks drains every bucket with round <= currentRound, removing from
// group any node that never contributed a signature share to any of the
// evicted tasks (presumed unresponsive), and returns the evicted tasks for
// the caller to retry with a fresh nonce set.
func (m *SignTaskManager) GcSignTasks(currentRound uint64, group *SignerGroup) ([]*SignTask, error) {
	m.mu.Lock()
	var evicted []*SignTask
	for round, bucket := range m.buckets {
		if round > currentRound {
			continue
		}
		for _, id := range bucket {
			if t, ok := m.tasks[id]; ok {
				evicted = append(evicted, t)
				delete(m.tasks, id)
			}
		}
		delete(m.buckets, round)
	}
	m.mu.Unlock()

	if len(evicted) == 0 {
		return nil, nil
	}

	contributed := make(map[ids.NodeID]bool)
	participated := make(map[ids.NodeID]bool)
	for _, t := range evicted {
		for _, n := range t.Nodes() {
			participated[n] = true
		}
		for _, n := range t.RespondedNodes() {
			contributed[n] = true
		}
	}

	var unresponsive []ids.NodeID
	for n := range participated {
		if !contributed[n] {
			unresponsive = append(unresponsive, n)
		}
	}

	if len(unresponsive) > 0 {
		if err := group.RemoveNodes(unresponsive); err != nil {
			return evicted, err
		}
	}
	return evicted, nil
}

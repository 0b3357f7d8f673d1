package fs

import "github.com/google/uuid"

// LeaseToken identifies a single reification of a store. Tokens are opaque
// and single-use; at most one is outstanding per store.
type LeaseToken struct {
	id uuid.UUID
}

// Lease is the exclusivity guard of the reification subsystem. A store that
// supports reification embeds a Lease, checks it in its operation guard, and
// exposes it through the Reifiable interface. The bypass depth counter
// admits the staging subsystem's own calls back into the leased store; it is
// mutated only by that subsystem, which keeps the re-entrancy exception
// auditable.
//
// The lease is cooperative, not a general lock: it stops two consumers from
// staging the same backing store and clobbering each other's write-back, and
// nothing more.
type Lease struct {
	held   bool
	token  LeaseToken
	bypass int
}

// Acquire takes the lease, failing with ErrLeaseConflict when one is
// already outstanding.
func (l *Lease) Acquire() (LeaseToken, error) {
	if l.held {
		return LeaseToken{}, ErrLeaseConflict
	}
	l.held = true
	l.token = LeaseToken{id: uuid.New()}
	return l.token, nil
}

// Release frees the lease. The token must be the one returned by Acquire.
func (l *Lease) Release(token LeaseToken) error {
	if !l.held || l.token != token {
		return ErrLeaseConflict
	}
	l.held = false
	l.token = LeaseToken{}
	return nil
}

// Held reports whether a lease is outstanding.
func (l *Lease) Held() bool {
	return l.held
}

// Check returns ErrLeaseConflict when the store is leased and the call did
// not come through the staging handle.
func (l *Lease) Check() error {
	if l.held && l.bypass == 0 {
		return ErrLeaseConflict
	}
	return nil
}

// BeginBypass raises the re-entrancy depth so the staging subsystem's own
// calls into the backing store pass Check.
func (l *Lease) BeginBypass() {
	l.bypass++
}

// EndBypass lowers the re-entrancy depth.
func (l *Lease) EndBypass() {
	if l.bypass > 0 {
		l.bypass--
	}
}

// Reifiable is implemented by stores whose content can be materialized onto
// the real file system by the staging subsystem.
type Reifiable interface {
	FileSystem

	// Lease exposes the store's reification guard.
	Lease() *Lease
}

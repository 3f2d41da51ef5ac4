// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"slices"
	"sync"

	"github.com/danielhkuo/quickly-elect/election"
)

// Registry holds the administrator, approved users and the pending queue
type Registry struct {
	mu       sync.RWMutex
	admin    election.Identity
	approved []election.User
	pending  []election.User
	version  uint64
}

// New seeds a registry whose administrator is also its first approved user
func New(admin election.Identity, name, externalID string) *Registry {
	return &Registry{
		admin:    admin,
		approved: []election.User{{Identity: admin, Name: name, ExternalID: externalID}},
	}
}

// Register queues caller for approval
func (r *Registry) Register(caller election.Identity, name, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller == r.admin {
		return election.ErrAdminAlreadyRegistered
	}
	if indexOf(r.pending, caller) >= 0 {
		return election.ErrUserAlreadyPending
	}
	if indexOf(r.approved, caller) >= 0 {
		return election.ErrUserAlreadyRegistered
	}

	r.pending = append(r.pending, election.User{Identity: caller, Name: name, ExternalID: externalID})
	r.version++
	return nil
}

// Pending returns the queue in arrival order
func (r *Registry) Pending(caller election.Identity) ([]election.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if caller != r.admin {
		return nil, election.ErrNotAdmin
	}
	users := slices.Clone(r.pending)
	if users == nil {
		users = []election.User{}
	}
	return users, nil
}

// Approve moves a pending account to the approved list
func (r *Registry) Approve(caller, account election.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.admin {
		return election.ErrNotAdmin
	}
	if indexOf(r.pending, account) < 0 {
		if indexOf(r.approved, account) >= 0 {
			return election.ErrUserAlreadyRegistered
		}
		return election.ErrUserNotFound
	}

	r.promote(account)
	r.version++
	return nil
}

// DelegateAdmin hands the administrator role to account, registering and
// approving it first when needed.
func (r *Registry) DelegateAdmin(caller, account election.Identity, name, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.admin {
		return election.ErrNotAdmin
	}

	if indexOf(r.approved, account) < 0 {
		if indexOf(r.pending, account) < 0 {
			r.pending = append(r.pending, election.User{Identity: account, Name: name, ExternalID: externalID})
		}
		r.promote(account)
	}
	r.admin = account
	r.version++
	return nil
}

func (r *Registry) promote(account election.Identity) {
	i := indexOf(r.pending, account)
	user := r.pending[i]
	r.pending = slices.Delete(r.pending, i, i+1)
	r.approved = append(r.approved, user)
}

// IsAdmin reports whether id is the current administrator
func (r *Registry) IsAdmin(id election.Identity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return id == r.admin
}

// Admin returns the current administrator identity
func (r *Registry) Admin() election.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.admin
}

// Lookup returns the approved record for id
func (r *Registry) Lookup(id election.Identity) (election.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := indexOf(r.approved, id); i >= 0 {
		return r.approved[i], nil
	}
	if indexOf(r.pending, id) >= 0 {
		return election.User{}, election.ErrUserNotApproved
	}
	return election.User{}, election.ErrUserNotFound
}

// Snapshot is a copy of the registry state
type Snapshot struct {
	Admin    election.Identity
	Approved []election.User
	Pending  []election.User
	Version  uint64
}

func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Snapshot{
		Admin:    r.admin,
		Approved: slices.Clone(r.approved),
		Pending:  slices.Clone(r.pending),
		Version:  r.version,
	}
}

func (r *Registry) Restore(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.admin = s.Admin
	r.approved = slices.Clone(s.Approved)
	r.pending = slices.Clone(s.Pending)
	r.version = s.Version
}

func indexOf(users []election.User, id election.Identity) int {
	return slices.IndexFunc(users, func(u election.User) bool { return u.Identity == id })
}

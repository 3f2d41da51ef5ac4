// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

// Directory answers who the caller is at the system level.
//
// Lookup returns the approved user for id, ErrUserNotApproved when the
// registration is still pending and ErrUserNotFound otherwise.
type Directory interface {
	IsAdmin(id Identity) bool
	Lookup(id Identity) (User, error)
}

func (e *Engine) requireAdmin(caller Identity) error {
	if !e.dir.IsAdmin(caller) {
		return ErrNotAdmin
	}
	return nil
}

// requireMember admits the administrator or any approved user
func (e *Engine) requireMember(caller Identity) error {
	if e.dir.IsAdmin(caller) {
		return nil
	}
	_, err := e.dir.Lookup(caller)
	return err
}

// requireUser admits approved users only and returns their roster copy
func (e *Engine) requireUser(caller Identity) (User, error) {
	if e.dir.IsAdmin(caller) {
		return User{}, ErrUsersOnly
	}
	return e.dir.Lookup(caller)
}

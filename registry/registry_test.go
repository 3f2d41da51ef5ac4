// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"errors"
	"testing"

	"github.com/danielhkuo/quickly-elect/election"
)

const root election.Identity = "root"

func TestRegister(t *testing.T) {
	reg := New(root, "Root", "0")
	if err := reg.Register("ana", "Ana", "111"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register("ben", "Ben", "222"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Approve(root, "ben"); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	tests := []struct {
		name    string
		caller  election.Identity
		wantErr error
	}{
		{"administrator", root, election.ErrAdminAlreadyRegistered},
		{"pending", "ana", election.ErrUserAlreadyPending},
		{"approved", "ben", election.ErrUserAlreadyRegistered},
		{"new", "cleo", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := reg.Register(tt.caller, "X", "999"); !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPending(t *testing.T) {
	reg := New(root, "Root", "0")

	empty, err := reg.Pending(root)
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil queue, got %v", empty)
	}

	for _, id := range []election.Identity{"cleo", "ana", "ben"} {
		if err := reg.Register(id, string(id), "x"); err != nil {
			t.Fatalf("Register(%s) error = %v", id, err)
		}
	}

	queue, err := reg.Pending(root)
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	want := []election.Identity{"cleo", "ana", "ben"}
	for i, u := range queue {
		if u.Identity != want[i] {
			t.Errorf("queue[%d] = %s, want %s", i, u.Identity, want[i])
		}
	}

	if _, err := reg.Pending("ana"); !errors.Is(err, election.ErrNotAdmin) {
		t.Errorf("expected ErrNotAdmin, got %v", err)
	}
}

func TestApprove(t *testing.T) {
	reg := New(root, "Root", "0")
	if err := reg.Register("ana", "Ana", "111"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := reg.Approve("ana", "ana"); !errors.Is(err, election.ErrNotAdmin) {
		t.Errorf("self approval: got %v", err)
	}
	if _, err := reg.Lookup("ana"); !errors.Is(err, election.ErrUserNotApproved) {
		t.Errorf("Lookup() before approval: got %v", err)
	}

	if err := reg.Approve(root, "ana"); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	user, err := reg.Lookup("ana")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if user.Name != "Ana" || user.ExternalID != "111" {
		t.Errorf("Lookup() = %+v", user)
	}

	if err := reg.Approve(root, "ana"); !errors.Is(err, election.ErrUserAlreadyRegistered) {
		t.Errorf("approve twice: got %v", err)
	}
	if err := reg.Approve(root, "ghost"); !errors.Is(err, election.ErrUserNotFound) {
		t.Errorf("approve unknown: got %v", err)
	}
}

func TestDelegateAdmin(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, reg *Registry)
	}{
		{"unknown account", func(t *testing.T, reg *Registry) {}},
		{"pending account", func(t *testing.T, reg *Registry) {
			if err := reg.Register("ana", "Ana", "111"); err != nil {
				t.Fatalf("Register() error = %v", err)
			}
		}},
		{"approved account", func(t *testing.T, reg *Registry) {
			if err := reg.Register("ana", "Ana", "111"); err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if err := reg.Approve(root, "ana"); err != nil {
				t.Fatalf("Approve() error = %v", err)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := New(root, "Root", "0")
			tt.setup(t, reg)

			if err := reg.DelegateAdmin("ana", "ana", "Ana", "111"); !errors.Is(err, election.ErrNotAdmin) {
				t.Fatalf("non-admin delegation: got %v", err)
			}
			if err := reg.DelegateAdmin(root, "ana", "Ana", "111"); err != nil {
				t.Fatalf("DelegateAdmin() error = %v", err)
			}

			if !reg.IsAdmin("ana") || reg.IsAdmin(root) {
				t.Error("administrator did not change")
			}
			if _, err := reg.Lookup("ana"); err != nil {
				t.Errorf("new administrator not approved: %v", err)
			}
			if _, err := reg.Lookup(root); err != nil {
				t.Errorf("previous administrator lost approval: %v", err)
			}
			snap := reg.Snapshot()
			if len(snap.Pending) != 0 || len(snap.Approved) != 2 {
				t.Errorf("snapshot = %+v", snap)
			}
		})
	}
}

func TestRegistryAsDirectory(t *testing.T) {
	reg := New(root, "Root", "0")
	if err := reg.Register("ana", "Ana", "111"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Approve(root, "ana"); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	engine := election.NewEngine(reg)
	if _, err := engine.ListCurrent("ana", 0); err != nil {
		t.Errorf("approved user rejected: %v", err)
	}
	if _, err := engine.ListCurrent("ghost", 0); !errors.Is(err, election.ErrUserNotFound) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	reg := New(root, "Root", "0")
	if err := reg.Register("ana", "Ana", "111"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	snap := reg.Snapshot()
	if snap.Version != 1 {
		t.Errorf("version = %d, want 1", snap.Version)
	}

	other := New("someone", "Someone", "9")
	other.Restore(snap)
	if !other.IsAdmin(root) {
		t.Error("restored administrator mismatch")
	}
	if err := other.Approve(root, "ana"); err != nil {
		t.Fatalf("Approve() on restored registry error = %v", err)
	}
	if reg.Snapshot().Pending[0].Identity != "ana" {
		t.Error("restore shares memory with the source registry")
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func TestCreateAccount(t *testing.T) {
	f := newFixture(t)
	handler := NewAccountHandler(f.svc)

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest("POST", "/accounts", nil))
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.CreateAccountResponse
		testutil.AssertJSON(t, w, &resp)
		if err := auth.ValidateAccountKey(resp.AccountID, resp.AccountKey, f.svc.Config.AccountKeySalt); err != nil {
			t.Errorf("minted key does not validate: %v", err)
		}
		if seen[resp.AccountID] {
			t.Errorf("account id %s minted twice", resp.AccountID)
		}
		seen[resp.AccountID] = true
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	handler := NewAccountHandler(f.svc)
	ana := testutil.NewAccount(t, f.svc.Config)

	tests := []struct {
		name       string
		acct       testutil.Account
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{"missing name", ana, models.RegisterRequest{ExternalID: "111"}, http.StatusBadRequest, ""},
		{"invalid body", ana, "not an object", http.StatusBadRequest, ""},
		{"new account", ana, models.RegisterRequest{Name: "Ana", ExternalID: "111"}, http.StatusAccepted, ""},
		{"already pending", ana, models.RegisterRequest{Name: "Ana", ExternalID: "111"}, http.StatusForbidden, "user_already_pending"},
		{"administrator", f.admin, models.RegisterRequest{Name: "Admin", ExternalID: "0"}, http.StatusForbidden, "admin_already_registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.call(handler.Register, "POST", "/registry/requests", tt.body, tt.acct)
			assertCode(t, w, tt.wantStatus, tt.wantCode)
		})
	}

	snap, found, err := f.svc.Store.LoadAccounts(context.Background())
	if err != nil || !found {
		t.Fatalf("LoadAccounts() found = %v, err = %v", found, err)
	}
	if len(snap.Pending) != 1 || snap.Pending[0].Identity != election.Identity(ana.ID) {
		t.Errorf("stored pending = %+v", snap.Pending)
	}
}

func TestPendingRegistrations(t *testing.T) {
	f := newFixture(t)
	handler := NewAccountHandler(f.svc)
	ana := testutil.NewAccount(t, f.svc.Config)
	ben := f.user("Ben", "222")

	w := f.call(handler.Pending, "GET", "/registry/requests", nil, f.admin)
	testutil.AssertStatus(t, w, http.StatusOK)
	var empty []models.Account
	testutil.AssertJSON(t, w, &empty)
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected an empty list, got %v", empty)
	}

	if err := f.svc.Registry.Register(election.Identity(ana.ID), "Ana", "111"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	w = f.call(handler.Pending, "GET", "/registry/requests", nil, f.admin)
	testutil.AssertStatus(t, w, http.StatusOK)
	var queue []models.Account
	testutil.AssertJSON(t, w, &queue)
	if len(queue) != 1 || queue[0].AccountID != ana.ID || queue[0].ExternalID != "111" {
		t.Errorf("queue = %+v", queue)
	}

	w = f.call(handler.Pending, "GET", "/registry/requests", nil, ben)
	assertCode(t, w, http.StatusForbidden, "not_admin")
}

func TestApproveRegistration(t *testing.T) {
	f := newFixture(t)
	handler := NewAccountHandler(f.svc)
	ana := testutil.NewAccount(t, f.svc.Config)
	if err := f.svc.Registry.Register(election.Identity(ana.ID), "Ana", "111"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name       string
		acct       testutil.Account
		target     string
		wantStatus int
		wantCode   string
	}{
		{"self approval", ana, ana.ID, http.StatusForbidden, "not_admin"},
		{"unknown account", f.admin, "ghost", http.StatusNotFound, "user_not_found"},
		{"pending account", f.admin, ana.ID, http.StatusOK, ""},
		{"approved account", f.admin, ana.ID, http.StatusForbidden, "user_already_registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.call(handler.Approve, "POST", "/registry/requests/"+tt.target+"/approve", nil, tt.acct,
				"account", tt.target)
			assertCode(t, w, tt.wantStatus, tt.wantCode)
		})
	}

	if _, err := f.svc.Registry.Lookup(election.Identity(ana.ID)); err != nil {
		t.Errorf("Lookup() after approval error = %v", err)
	}
}

func TestDelegateAdmin(t *testing.T) {
	f := newFixture(t)
	handler := NewAccountHandler(f.svc)
	successor := testutil.NewAccount(t, f.svc.Config)
	req := models.DelegateAdminRequest{AccountID: successor.ID, Name: "Next", ExternalID: "999"}

	w := f.call(handler.DelegateAdmin, "POST", "/registry/admin", req, successor)
	assertCode(t, w, http.StatusForbidden, "not_admin")

	w = f.call(handler.DelegateAdmin, "POST", "/registry/admin", models.DelegateAdminRequest{}, f.admin)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = f.call(handler.DelegateAdmin, "POST", "/registry/admin", req, f.admin)
	testutil.AssertStatus(t, w, http.StatusOK)

	if !f.svc.Registry.IsAdmin(election.Identity(successor.ID)) {
		t.Fatal("administrator did not change")
	}

	// The previous administrator is now an ordinary user
	w = f.call(handler.Pending, "GET", "/registry/requests", nil, f.admin)
	assertCode(t, w, http.StatusForbidden, "not_admin")

	snap, _, err := f.svc.Store.LoadAccounts(context.Background())
	if err != nil {
		t.Fatalf("LoadAccounts() error = %v", err)
	}
	if snap.Admin != election.Identity(successor.ID) {
		t.Errorf("stored admin = %s, want %s", snap.Admin, successor.ID)
	}
}

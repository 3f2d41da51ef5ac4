// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-elect/calendar"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func TestCreateElection(t *testing.T) {
	f := newFixture(t)
	handler := NewElectionHandler(f.svc)
	ana := f.user("Ana", "111")

	valid := models.CreateElectionRequest{Office: "Mayor", Start: testutil.StartDate, End: testutil.EndDate}
	badMonth := valid
	badMonth.Start = calendar.Date{Day: 1, Month: 13, Year: 2001}
	reversed := valid
	reversed.Start, reversed.End = testutil.EndDate, testutil.StartDate

	tests := []struct {
		name       string
		acct       testutil.Account
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{"valid election", f.admin, valid, http.StatusCreated, ""},
		{"non-admin", ana, valid, http.StatusForbidden, "not_admin"},
		{"missing office", f.admin, models.CreateElectionRequest{Start: testutil.StartDate, End: testutil.EndDate}, http.StatusBadRequest, ""},
		{"invalid start", f.admin, badMonth, http.StatusBadRequest, "invalid_start_date"},
		{"end before start", f.admin, reversed, http.StatusBadRequest, "end_before_start"},
		{"invalid JSON", f.admin, []int{1}, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.call(handler.Create, "POST", "/elections", tt.body, tt.acct)
			assertCode(t, w, tt.wantStatus, tt.wantCode)
		})
	}

	t.Run("start passed", func(t *testing.T) {
		f.clock.Current = testutil.DuringVote
		defer func() { f.clock.Current = testutil.BeforeStart }()

		w := f.call(handler.Create, "POST", "/elections", valid, f.admin)
		assertCode(t, w, http.StatusBadRequest, "start_passed")
	})

	w := f.call(handler.Create, "POST", "/elections", valid, f.admin)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.CreateElectionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.ElectionID != 1 {
		t.Errorf("second election id = %d, want 1", resp.ElectionID)
	}

	snap, found, err := f.svc.Store.LoadElections(context.Background())
	if err != nil || !found {
		t.Fatalf("LoadElections() found = %v, err = %v", found, err)
	}
	if len(snap.Live) != 2 || snap.NextID != 2 {
		t.Errorf("stored snapshot = %+v", snap)
	}
}

func TestListElections(t *testing.T) {
	f := newFixture(t)
	handler := NewElectionHandler(f.svc)
	ana := f.user("Ana", "111")
	pending := testutil.NewAccount(t, f.svc.Config)
	if err := f.svc.Registry.Register(election.Identity(pending.ID), "Pat", "555"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	f.election("Mayor")
	f.election("Sheriff")
	f.enroll(0, ana, "111", election.RoleCandidate)

	for _, acct := range []testutil.Account{f.admin, ana} {
		w := f.call(handler.ListCurrent, "GET", "/elections", nil, acct)
		testutil.AssertStatus(t, w, http.StatusOK)

		var list []models.Election
		testutil.AssertJSON(t, w, &list)
		if len(list) != 2 || list[0].Office != "Mayor" || list[1].Office != "Sheriff" {
			t.Fatalf("list = %+v", list)
		}
		if list[0].Phase != string(election.PhaseRegistration) {
			t.Errorf("phase = %s, want registration", list[0].Phase)
		}
		if !strings.HasSuffix(list[0].StartsText, "from now") {
			t.Errorf("starts = %q", list[0].StartsText)
		}
		if len(list[0].Candidates) != 1 || list[0].Candidates[0].ExternalID != "111" {
			t.Errorf("candidates = %+v", list[0].Candidates)
		}
		if list[1].Candidates == nil || list[0].Results != nil {
			t.Errorf("unexpected projection %+v", list[1])
		}
	}

	w := f.call(handler.ListCurrent, "GET", "/elections", nil, pending)
	assertCode(t, w, http.StatusForbidden, "user_not_approved")

	f.clock.Current = testutil.AfterEnd
	if _, err := f.svc.Engine.Finalize(election.Identity(f.admin.ID), 1, f.svc.nowMillis()); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	w = f.call(handler.ListHistory, "GET", "/elections/history", nil, ana)
	testutil.AssertStatus(t, w, http.StatusOK)
	var history []models.Election
	testutil.AssertJSON(t, w, &history)
	if len(history) != 2 {
		t.Fatalf("history = %+v", history)
	}
	if history[0].Office != "Sheriff" || history[0].Phase != string(election.PhaseFinalized) {
		t.Errorf("history[0] = %+v", history[0])
	}
	if history[1].Office != "Mayor" || history[1].Phase != string(election.PhaseClosed) || history[1].Results != nil {
		t.Errorf("history[1] = %+v", history[1])
	}
	if !strings.HasSuffix(history[1].EndsText, "ago") {
		t.Errorf("ends = %q", history[1].EndsText)
	}
}

// castBallots has each voter vote for the candidate at the same index of choices
func castBallots(t *testing.T, f *fixture, id uint64, voters []testutil.Account, choices []string) {
	t.Helper()

	for i, v := range voters {
		if err := f.svc.Engine.CastVote(election.Identity(v.ID), id, choices[i], f.svc.nowMillis()); err != nil {
			t.Fatalf("CastVote() error = %v", err)
		}
	}
}

func TestResults(t *testing.T) {
	f := newFixture(t)
	handler := NewElectionHandler(f.svc)
	ana := f.user("Ana", "111")
	ben := f.user("Ben", "222")
	cleo := f.user("Cleo", "333")
	dan := f.user("Dan", "444")

	id := f.election("Mayor")
	f.enroll(id, ana, "111", election.RoleCandidate)
	f.enroll(id, ben, "222", election.RoleCandidate)
	f.enroll(id, cleo, "333", election.RoleVoter)
	f.enroll(id, dan, "444", election.RoleVoter)

	w := f.call(handler.Results, "GET", "/elections/0/results", nil, ana, "id", "0")
	assertCode(t, w, http.StatusConflict, "no_results")

	f.clock.Current = testutil.DuringVote
	castBallots(t, f, id, []testutil.Account{cleo, dan}, []string{"222", "222"})
	f.clock.Current = testutil.AfterEnd
	if _, err := f.svc.Engine.Finalize(election.Identity(f.admin.ID), id, f.svc.nowMillis()); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantCode   string
	}{
		{"finalized", "0", http.StatusOK, ""},
		{"never created", "7", http.StatusNotFound, "election_not_found"},
		{"malformed id", "abc", http.StatusBadRequest, ""},
		{"negative id", "-1", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.call(handler.Results, "GET", "/elections/"+tt.id+"/results", nil, cleo, "id", tt.id)
			assertCode(t, w, tt.wantStatus, tt.wantCode)
		})
	}

	w = f.call(handler.Results, "GET", "/elections/0/results", nil, f.admin, "id", "0")
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Results) != 2 {
		t.Fatalf("results = %+v", resp.Results)
	}
	if resp.Results[0].Identifier != "222" || resp.Results[0].Votes != 2 || resp.Results[0].Rank != 1 {
		t.Errorf("winner row = %+v", resp.Results[0])
	}
	if resp.Results[1].Identifier != "111" || resp.Results[1].Rank != 2 {
		t.Errorf("second row = %+v", resp.Results[1])
	}
}

func TestFinalize(t *testing.T) {
	f := newFixture(t)
	handler := NewElectionHandler(f.svc)
	ana := f.user("Ana", "111")
	ben := f.user("Ben", "222")

	contested := f.election("Mayor")
	empty := f.election("Sheriff")
	f.enroll(contested, ana, "111", election.RoleCandidate)
	f.enroll(contested, ben, "222", election.RoleVoter)

	w := f.call(handler.Finalize, "POST", "/elections/0/finalize", nil, f.admin, "id", "0")
	assertCode(t, w, http.StatusConflict, "election_registration")

	f.clock.Current = testutil.DuringVote
	castBallots(t, f, contested, []testutil.Account{ben}, []string{"111"})

	w = f.call(handler.Finalize, "POST", "/elections/0/finalize", nil, f.admin, "id", "0")
	assertCode(t, w, http.StatusConflict, "election_voting")

	f.clock.Current = testutil.AfterEnd

	w = f.call(handler.Finalize, "POST", "/elections/0/finalize", nil, ana, "id", "0")
	assertCode(t, w, http.StatusForbidden, "not_admin")

	w = f.call(handler.Finalize, "POST", "/elections/0/finalize", nil, f.admin, "id", "0")
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.FinalizeResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Empty || resp.Winner.Identifier != "111" || resp.Winner.Votes != 1 || resp.Winner.VotesText != "1" {
		t.Errorf("finalize = %+v", resp)
	}

	w = f.call(handler.Finalize, "POST", "/elections/0/finalize", nil, f.admin, "id", "0")
	assertCode(t, w, http.StatusConflict, "election_finalized")

	w = f.call(handler.Finalize, "POST", "/elections/1/finalize", nil, f.admin, "id", idValue(empty))
	testutil.AssertStatus(t, w, http.StatusOK)
	resp = models.FinalizeResponse{}
	testutil.AssertJSON(t, w, &resp)
	if !resp.Empty || resp.Winner.Identifier != election.EmptyResult.Identifier {
		t.Errorf("empty finalize = %+v", resp)
	}

	snap, _, err := f.svc.Store.LoadElections(context.Background())
	if err != nil {
		t.Fatalf("LoadElections() error = %v", err)
	}
	if len(snap.Live) != 0 || len(snap.Finalized) != 2 {
		t.Errorf("stored snapshot = %+v", snap)
	}
}

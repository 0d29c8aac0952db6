package models

import "testing"

func TestMemberStatusValid(t *testing.T) {
	valid := []MemberStatus{StatusPending, StatusAccepted, StatusRejected}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	invalid := []MemberStatus{StatusNone, "approved", "PENDING"}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestMemberStatusTransitions(t *testing.T) {
	cases := []struct {
		from    MemberStatus
		to      MemberStatus
		allowed bool
	}{
		{StatusNone, StatusPending, true},
		{StatusNone, StatusAccepted, false},
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusNone, false},
		{StatusRejected, StatusPending, true},
		{StatusRejected, StatusAccepted, false},
		{StatusAccepted, StatusNone, true},
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%q -> %q): expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

package model

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to approved", StatusPending, StatusApproved, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending to completed skips approval", StatusPending, StatusCompleted, false},
		{"pending to pending", StatusPending, StatusPending, false},
		{"approved to completed", StatusApproved, StatusCompleted, true},
		{"approved to rejected", StatusApproved, StatusRejected, true},
		{"approved to pending", StatusApproved, StatusPending, false},
		{"rejected is terminal", StatusRejected, StatusPending, false},
		{"rejected to approved", StatusRejected, StatusApproved, false},
		{"completed is terminal", StatusCompleted, StatusRejected, false},
		{"completed to approved", StatusCompleted, StatusApproved, false},
		{"unknown source", "ARCHIVED", StatusApproved, false},
		{"unknown target", StatusPending, "ARCHIVED", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusApproved, StatusRejected, StatusCompleted} {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%s) = false, want true", s)
		}
	}
	for _, s := range []string{"", "pending", "DONE", "ARCHIVED"} {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = true, want false", s)
		}
	}
}

func TestAllowedNextStatuses(t *testing.T) {
	if got := AllowedNextStatuses(StatusPending); len(got) != 2 {
		t.Errorf("AllowedNextStatuses(PENDING) = %v, want 2 entries", got)
	}
	if got := AllowedNextStatuses(StatusRejected); len(got) != 0 {
		t.Errorf("AllowedNextStatuses(REJECTED) = %v, want none", got)
	}
	if got := AllowedNextStatuses(StatusCompleted); len(got) != 0 {
		t.Errorf("AllowedNextStatuses(COMPLETED) = %v, want none", got)
	}
}

package chat

import "testing"

func TestPairKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b     string
		low, high string
	}{
		{"alice", "bob", "alice", "bob"},
		{"bob", "alice", "alice", "bob"},
		{"same", "same", "same", "same"},
	}
	for _, tc := range cases {
		low, high := PairKey(tc.a, tc.b)
		if low != tc.low || high != tc.high {
			t.Errorf("PairKey(%q, %q) = (%q, %q), want (%q, %q)", tc.a, tc.b, low, high, tc.low, tc.high)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	t.Parallel()

	admin := "u1"
	group := Chat{Kind: ChatKindGroup, AdminUserID: &admin}
	if !group.IsAdmin("u1") {
		t.Error("IsAdmin(u1) = false, want true")
	}
	if group.IsAdmin("u2") {
		t.Error("IsAdmin(u2) = true, want false")
	}

	direct := Chat{Kind: ChatKindOneOnOne}
	if direct.IsAdmin("u1") {
		t.Error("one-on-one chat reported an admin")
	}
}

func TestDedupeUserIDs(t *testing.T) {
	t.Parallel()

	got := DedupeUserIDs([]string{"a", "b", "a", "", "c", "b"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("DedupeUserIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DedupeUserIDs() = %v, want %v", got, want)
		}
	}
}

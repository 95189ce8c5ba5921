package model

import "testing"

func TestNote_IsOwnedBy(t *testing.T) {
	note := &Note{ID: 1, OwnerID: 42}

	if !note.IsOwnedBy(42) {
		t.Error("expected note to be owned by user 42")
	}
	if note.IsOwnedBy(7) {
		t.Error("expected note not to be owned by user 7")
	}
}

func TestIdentity_CanModify(t *testing.T) {
	note := &Note{ID: 1, OwnerID: 42}

	tests := []struct {
		name     string
		identity Identity
		want     bool
	}{
		{"owner", Identity{UserID: 42}, true},
		{"superuser_not_owner", Identity{UserID: 7, IsSuperuser: true}, true},
		{"superuser_owner", Identity{UserID: 42, IsSuperuser: true}, true},
		{"other_user", Identity{UserID: 7}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.identity.CanModify(note); got != test.want {
				t.Errorf("CanModify() = %v, want %v", got, test.want)
			}
		})
	}
}

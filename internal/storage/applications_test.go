package storage

import (
	"context"
	"errors"
	"testing"
)

func TestListApplicationsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []*Application{
		{Name: "Alice Trucker", Email: "alice@example.com"},
		{Name: "Bob Hauler", Email: "bob@example.com"},
		{Name: "Carol Freight", Email: "carol@other.net", Status: ApplicationStatusRejected},
	}
	for _, app := range seed {
		if _, err := s.CreateApplication(ctx, app); err != nil {
			t.Fatalf("CreateApplication(%s) failed: %v", app.Name, err)
		}
	}

	tests := []struct {
		name      string
		filter    ApplicationFilter
		wantNames []string
	}{
		{
			name:      "no filter returns all, newest first",
			filter:    ApplicationFilter{},
			wantNames: []string{"Carol Freight", "Bob Hauler", "Alice Trucker"},
		},
		{
			name:      "status filter",
			filter:    ApplicationFilter{Status: ApplicationStatusRejected},
			wantNames: []string{"Carol Freight"},
		},
		{
			name:      "search matches name case-insensitively",
			filter:    ApplicationFilter{Search: "ALICE"},
			wantNames: []string{"Alice Trucker"},
		},
		{
			name:      "search matches email domain",
			filter:    ApplicationFilter{Search: "example.com"},
			wantNames: []string{"Bob Hauler", "Alice Trucker"},
		},
		{
			name:      "status and search combine",
			filter:    ApplicationFilter{Status: ApplicationStatusNew, Search: "example.com"},
			wantNames: []string{"Bob Hauler", "Alice Trucker"},
		},
		{
			name:      "no match",
			filter:    ApplicationFilter{Search: "zebra"},
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps, err := s.ListApplications(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListApplications failed: %v", err)
			}
			if len(apps) != len(tt.wantNames) {
				t.Fatalf("got %d applications, want %d", len(apps), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				if apps[i].Name != want {
					t.Errorf("apps[%d].Name = %q, want %q", i, apps[i].Name, want)
				}
			}
		})
	}
}

func TestListApplicationsPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		name := string(rune('A'+i)) + " Driver"
		if _, err := s.CreateApplication(ctx, &Application{Name: name, Email: "d@example.com"}); err != nil {
			t.Fatalf("CreateApplication failed: %v", err)
		}
	}

	page1, err := s.ListApplications(ctx, ApplicationFilter{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("ListApplications page 1 failed: %v", err)
	}
	page2, err := s.ListApplications(ctx, ApplicationFilter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListApplications page 2 failed: %v", err)
	}
	page3, err := s.ListApplications(ctx, ApplicationFilter{Page: 3, Limit: 2})
	if err != nil {
		t.Fatalf("ListApplications page 3 failed: %v", err)
	}

	if len(page1) != 2 || len(page2) != 2 || len(page3) != 1 {
		t.Fatalf("page sizes = %d/%d/%d, want 2/2/1", len(page1), len(page2), len(page3))
	}

	seen := map[int64]bool{}
	for _, app := range append(append(page1, page2...), page3...) {
		if seen[app.ID] {
			t.Errorf("application %d appeared on more than one page", app.ID)
		}
		seen[app.ID] = true
	}
}

func TestApplicationNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetApplication(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetApplication error = %v, want ErrNotFound", err)
	}
	if err := s.UpdateApplicationReview(ctx, 42, ApplicationStatusApproved, 1, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateApplicationReview error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteApplication(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteApplication error = %v, want ErrNotFound", err)
	}
}

func TestApplicationStoresEncryptedSSNOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sealed, err := EncryptField("123-45-6789", testFieldKey)
	if err != nil {
		t.Fatalf("EncryptField failed: %v", err)
	}

	app, err := s.CreateApplication(ctx, &Application{
		Name:         "Dana Driver",
		Email:        "dana@example.com",
		SSNEncrypted: sealed,
	})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	got, err := s.GetApplication(ctx, app.ID)
	if err != nil {
		t.Fatalf("GetApplication failed: %v", err)
	}
	if got.SSNEncrypted != sealed {
		t.Error("stored envelope does not round-trip")
	}

	plain, err := DecryptField(got.SSNEncrypted, testFieldKey)
	if err != nil {
		t.Fatalf("DecryptField failed: %v", err)
	}
	if plain != "123-45-6789" {
		t.Errorf("decrypted SSN = %q", plain)
	}
}

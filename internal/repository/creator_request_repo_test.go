package repository

import (
	"testing"
	"time"

	"shinypull/internal/model"
)

func TestPendingOldestOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreatorRequestRepo(db)

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i, username := range []string{"first", "second", "third"} {
		req := &model.CreatorRequest{Platform: model.PlatformTikTok, Username: username, Status: model.RequestStatusPending}
		if err := repo.Create(t.Context(), req); err != nil {
			t.Fatalf("Create: %v", err)
		}
		db.Model(&model.CreatorRequest{}).Where("id = ?", req.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Minute))
	}

	got, err := repo.PendingOldest(t.Context(), 2)
	if err != nil {
		t.Fatalf("PendingOldest: %v", err)
	}
	if len(got) != 2 || got[0].Username != "first" || got[1].Username != "second" {
		t.Fatalf("batch = %+v, want oldest two", got)
	}
}

func TestUpdateStatusStampsTerminalStates(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreatorRequestRepo(db)

	req := &model.CreatorRequest{Platform: model.PlatformYouTube, Username: "nova", Status: model.RequestStatusPending}
	if err := repo.Create(t.Context(), req); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.UpdateStatus(t.Context(), req.ID, model.RequestStatusProcessing, nil); err != nil {
		t.Fatalf("UpdateStatus processing: %v", err)
	}
	var mid model.CreatorRequest
	db.First(&mid, req.ID)
	if mid.Status != model.RequestStatusProcessing || mid.ProcessedAt != nil {
		t.Fatalf("processing state = %q processed_at=%v", mid.Status, mid.ProcessedAt)
	}

	message := "profile not found"
	if err := repo.UpdateStatus(t.Context(), req.ID, model.RequestStatusFailed, &message); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	var done model.CreatorRequest
	db.First(&done, req.ID)
	if done.Status != model.RequestStatusFailed {
		t.Errorf("status = %q", done.Status)
	}
	if done.ProcessedAt == nil {
		t.Error("terminal state missing processed_at")
	}
	if done.ErrorMessage == nil || *done.ErrorMessage != message {
		t.Errorf("error message = %v", done.ErrorMessage)
	}
}

func TestExistingRequestFiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreatorRequestRepo(db)

	req := &model.CreatorRequest{Platform: model.PlatformTwitch, Username: "nova", Status: model.RequestStatusPending}
	if err := repo.Create(t.Context(), req); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ExistingRequest(t.Context(), model.PlatformTwitch, "nova", model.RequestStatusPending)
	if err != nil {
		t.Fatalf("ExistingRequest: %v", err)
	}
	if got == nil {
		t.Fatal("pending request not found")
	}

	got, err = repo.ExistingRequest(t.Context(), model.PlatformTwitch, "nova", model.RequestStatusCompleted)
	if err != nil {
		t.Fatalf("ExistingRequest: %v", err)
	}
	if got != nil {
		t.Fatal("completed lookup matched a pending request")
	}
}

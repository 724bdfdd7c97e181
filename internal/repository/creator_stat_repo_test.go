package repository

import (
	"testing"

	"shinypull/internal/model"
)

func TestUpsertDailyStatOverwritesSameDay(t *testing.T) {
	db := newTestDB(t)
	creators := NewCreatorRepo(db)
	stats := NewCreatorStatRepo(db)

	creator := mustUpsertCreator(t, creators, &model.Creator{Platform: model.PlatformYouTube, PlatformID: "UC9", Username: "nova"})

	first := &model.CreatorStat{CreatorID: creator.ID, RecordedAt: "2026-02-12", Subscribers: 100, Followers: 100, TotalViews: 5000}
	if err := stats.UpsertDailyStat(t.Context(), first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := &model.CreatorStat{CreatorID: creator.ID, RecordedAt: "2026-02-12", Subscribers: 120, Followers: 120, TotalViews: 5100}
	if err := stats.UpsertDailyStat(t.Context(), second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	db.Model(&model.CreatorStat{}).Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d, want 1 for a repeated day", count)
	}

	got, err := stats.LastNDays(t.Context(), creator.ID, 5)
	if err != nil {
		t.Fatalf("LastNDays: %v", err)
	}
	if got[0].Subscribers != 120 || got[0].TotalViews != 5100 {
		t.Errorf("second write did not win: %+v", got[0])
	}
}

func TestLastNDaysNewestFirst(t *testing.T) {
	db := newTestDB(t)
	creators := NewCreatorRepo(db)
	stats := NewCreatorStatRepo(db)

	creator := mustUpsertCreator(t, creators, &model.Creator{Platform: model.PlatformKick, PlatformID: "5", Username: "nova"})
	for _, day := range []string{"2026-02-10", "2026-02-12", "2026-02-11"} {
		if err := stats.UpsertDailyStat(t.Context(), &model.CreatorStat{CreatorID: creator.ID, RecordedAt: day}); err != nil {
			t.Fatalf("upsert %s: %v", day, err)
		}
	}

	got, err := stats.LastNDays(t.Context(), creator.ID, 2)
	if err != nil {
		t.Fatalf("LastNDays: %v", err)
	}
	if len(got) != 2 || got[0].RecordedAt != "2026-02-12" || got[1].RecordedAt != "2026-02-11" {
		t.Fatalf("window = %+v, want newest two", got)
	}
}

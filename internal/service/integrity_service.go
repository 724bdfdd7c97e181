package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shinypull/internal/model"
	"shinypull/internal/pkg/platform"
	"shinypull/internal/pkg/util"
	"shinypull/internal/repository"
)

type CheckStatus string

const (
	CheckPass CheckStatus = "PASS"
	CheckWarn CheckStatus = "WARN"
	CheckFail CheckStatus = "FAIL"
)

// CheckResult is one (creator, check) evaluation. Results are the
// pipeline's output, never raised as errors.
type CheckResult struct {
	Check  string
	Status CheckStatus
	Detail string
}

// Tally accumulates check results across a whole run. Any FAIL anywhere
// makes the run's exit status non-zero.
type Tally struct {
	Pass int
	Warn int
	Fail int
}

func (t *Tally) Add(results ...CheckResult) {
	for _, r := range results {
		switch r.Status {
		case CheckPass:
			t.Pass++
		case CheckWarn:
			t.Warn++
		case CheckFail:
			t.Fail++
		}
	}
}

// CreatorReport bundles one creator's results.
type CreatorReport struct {
	Creator *model.Creator
	Results []CheckResult
}

const (
	historyWindowDays   = 30
	stalenessMaxAge     = 48 * time.Hour
	swingWarnPercent    = 30.0
	gapFailDays         = 3
	apiMatchPassPct     = 5.0
	apiMatchWarnPct     = 15.0
	swingDetailMaxDates = 3
)

type IntegrityService interface {
	CheckCreator(ctx context.Context, creator *model.Creator) ([]CheckResult, error)
	CheckPlatform(ctx context.Context, platformName string, topN int) ([]*CreatorReport, error)
}

type integrityServiceImpl struct {
	creatorSvc CreatorService
	statRepo   repository.CreatorStatRepo
	clients    map[string]platform.Client
	now        func() time.Time
}

func NewIntegrityService(creatorSvc CreatorService, statRepo repository.CreatorStatRepo, clients map[string]platform.Client) IntegrityService {
	return &integrityServiceImpl{
		creatorSvc: creatorSvc,
		statRepo:   statRepo,
		clients:    clients,
		now:        util.NowNY,
	}
}

// CheckPlatform evaluates the top-N creators of one platform.
func (s *integrityServiceImpl) CheckPlatform(ctx context.Context, platformName string, topN int) ([]*CreatorReport, error) {
	creators, err := s.creatorSvc.TopByFollowers(ctx, platformName, topN)
	if err != nil {
		return nil, err
	}

	reports := make([]*CreatorReport, 0, len(creators))
	for _, creator := range creators {
		results, err := s.CheckCreator(ctx, creator)
		if err != nil {
			return nil, err
		}
		reports = append(reports, &CreatorReport{Creator: creator, Results: results})
	}
	return reports, nil
}

// CheckCreator runs the five independent checks over the creator's
// 30-day history plus one live read. History-only checks never touch the
// network; a creator with no history fails all four immediately.
func (s *integrityServiceImpl) CheckCreator(ctx context.Context, creator *model.Creator) ([]CheckResult, error) {
	history, err := s.statRepo.LastNDays(ctx, creator.ID, historyWindowDays)
	if err != nil {
		return nil, err
	}

	if len(history) == 0 {
		return []CheckResult{
			{Check: "staleness", Status: CheckFail, Detail: "no stat history"},
			{Check: "zero_value", Status: CheckFail, Detail: "no stat history"},
			{Check: "swing", Status: CheckFail, Detail: "no stat history"},
			{Check: "gap", Status: CheckFail, Detail: "no stat history"},
			{Check: "api_match_followers", Status: CheckWarn, Detail: "can't validate: no stored value"},
		}, nil
	}

	now := s.now()
	results := []CheckResult{
		checkStaleness(history, now),
		checkZeroValue(creator.Platform, history),
		checkSwing(history),
		checkGap(history, creator.CreatedAt, now),
	}

	client, ok := s.clients[creator.Platform]
	if !ok {
		results = append(results, CheckResult{
			Check: "api_match_followers", Status: CheckWarn, Detail: "can't validate: no client configured",
		})
		return results, nil
	}

	live, err := client.FetchProfile(ctx, creator.Username)
	if err != nil {
		results = append(results, CheckResult{
			Check: "api_match_followers", Status: CheckWarn, Detail: "can't validate: " + err.Error(),
		})
		return results, nil
	}

	results = append(results, checkAPIMatch(creator.Platform, history[0], live)...)
	return results, nil
}

// checkStaleness compares the newest row's day against now.
func checkStaleness(history []*model.CreatorStat, now time.Time) CheckResult {
	newest, err := util.ParseDateNY(history[0].RecordedAt)
	if err != nil {
		return CheckResult{Check: "staleness", Status: CheckFail, Detail: "unparseable recorded_at: " + history[0].RecordedAt}
	}

	age := now.Sub(newest)
	if age <= stalenessMaxAge {
		return CheckResult{Check: "staleness", Status: CheckPass, Detail: fmt.Sprintf("newest row %s", history[0].RecordedAt)}
	}
	return CheckResult{
		Check:  "staleness",
		Status: CheckFail,
		Detail: fmt.Sprintf("newest row %s is %.0fh old", history[0].RecordedAt, age.Hours()),
	}
}

// checkZeroValue flags zero follower rows. Skipped on Kick, where a
// zero paid-subscriber count is valid data.
func checkZeroValue(platformName string, history []*model.CreatorStat) CheckResult {
	if platformName == model.PlatformKick {
		return CheckResult{Check: "zero_value", Status: CheckPass, Detail: "skipped: zero paid subscribers is valid on kick"}
	}

	var zeroDates []string
	for _, row := range history {
		if row.Followers <= 0 || row.Subscribers <= 0 {
			zeroDates = append(zeroDates, row.RecordedAt)
		}
	}
	if len(zeroDates) == 0 {
		return CheckResult{Check: "zero_value", Status: CheckPass}
	}
	return CheckResult{
		Check:  "zero_value",
		Status: CheckFail,
		Detail: fmt.Sprintf("%d rows with zero followers (e.g. %s)", len(zeroDates), zeroDates[0]),
	}
}

// checkSwing flags day-over-day changes strictly over 30%. Large
// legitimate swings happen, so this only ever warns.
func checkSwing(history []*model.CreatorStat) CheckResult {
	chronological := make([]*model.CreatorStat, len(history))
	for i, row := range history {
		chronological[len(history)-1-i] = row
	}

	var offending []string
	for i := 1; i < len(chronological); i++ {
		prev := chronological[i-1].Followers
		cur := chronological[i].Followers
		if prev <= 0 {
			continue
		}
		change := (float64(cur-prev) / float64(prev)) * 100
		if change < 0 {
			change = -change
		}
		if change > swingWarnPercent {
			offending = append(offending, fmt.Sprintf("%s (%.1f%%)", chronological[i].RecordedAt, change))
		}
	}

	if len(offending) == 0 {
		return CheckResult{Check: "swing", Status: CheckPass}
	}

	shown := offending
	more := ""
	if len(shown) > swingDetailMaxDates {
		more = fmt.Sprintf(" and %d more", len(shown)-swingDetailMaxDates)
		shown = shown[:swingDetailMaxDates]
	}
	return CheckResult{
		Check:  "swing",
		Status: CheckWarn,
		Detail: "swings over 30%: " + strings.Join(shown, ", ") + more,
	}
}

// checkGap finds the longest run of missing calendar days in the last
// 30, anchored to today (NY) and clamped to the creator's own
// tracking-start so days before creation never count as gaps.
func checkGap(history []*model.CreatorStat, trackingStart time.Time, now time.Time) CheckResult {
	have := make(map[string]struct{}, len(history))
	for _, row := range history {
		have[row.RecordedAt] = struct{}{}
	}

	today, _ := util.ParseDateNY(util.DateNY(now))
	windowStart := today.AddDate(0, 0, -(historyWindowDays - 1))
	created, _ := util.ParseDateNY(util.DateNY(trackingStart))
	if created.After(windowStart) {
		windowStart = created
	}

	longest, run := 0, 0
	for day := windowStart; !day.After(today); day = day.AddDate(0, 0, 1) {
		if _, ok := have[day.Format(time.DateOnly)]; ok {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}

	switch {
	case longest == 0:
		return CheckResult{Check: "gap", Status: CheckPass}
	case longest <= gapFailDays:
		return CheckResult{Check: "gap", Status: CheckWarn, Detail: fmt.Sprintf("longest gap %d days", longest)}
	default:
		return CheckResult{Check: "gap", Status: CheckFail, Detail: fmt.Sprintf("longest gap %d days", longest)}
	}
}

// checkAPIMatch compares the stored latest values against a fresh live
// read. YouTube additionally compares view counts; TikTok compares
// videos and likes (stored under total_views for that platform).
func checkAPIMatch(platformName string, latest *model.CreatorStat, live *platform.Profile) []CheckResult {
	results := []CheckResult{
		matchTier("api_match_followers", latest.Followers, live.Followers),
	}
	switch platformName {
	case model.PlatformYouTube:
		results = append(results, matchTier("api_match_views", latest.TotalViews, live.TotalViews))
	case model.PlatformTikTok:
		results = append(results,
			matchTier("api_match_videos", latest.TotalPosts, live.TotalPosts),
			matchTier("api_match_likes", latest.TotalViews, live.TotalViews),
		)
	}
	return results
}

// matchTier grades divergence relative to the stored value.
func matchTier(check string, stored, live int64) CheckResult {
	if live <= 0 {
		return CheckResult{Check: check, Status: CheckWarn, Detail: "can't validate: live value is zero/absent"}
	}
	if stored <= 0 {
		return CheckResult{Check: check, Status: CheckFail, Detail: fmt.Sprintf("stored %d vs live %d", stored, live)}
	}

	diff := stored - live
	if diff < 0 {
		diff = -diff
	}
	pct := (float64(diff) / float64(stored)) * 100
	detail := fmt.Sprintf("stored %d vs live %d (%.1f%%)", stored, live, pct)

	switch {
	case pct <= apiMatchPassPct:
		return CheckResult{Check: check, Status: CheckPass, Detail: detail}
	case pct <= apiMatchWarnPct:
		return CheckResult{Check: check, Status: CheckWarn, Detail: detail}
	default:
		return CheckResult{Check: check, Status: CheckFail, Detail: detail}
	}
}

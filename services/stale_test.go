package services

import (
	"context"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"

	"github.com/NextechGS/nextech-concierge/models"
)

const testBotLogin = "nextech-concierge"

func stalePR(number int, created time.Time) map[string]any {
	return map[string]any{
		"number":     number,
		"title":      "add widget support",
		"html_url":   "https://github.com/nextechgs/platform/pull/1",
		"created_at": created.Format(time.RFC3339),
		"user":       map[string]any{"login": "alice"},
	}
}

func TestBumpStaleInitialComment(t *testing.T) {
	defer gock.Off()
	db := setupTestDB(t)
	gh := newTestGitHubClient(t)

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	quietSince := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	mockRemoteConfigAbsent("platform")

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/issues/1/comments").
		Reply(200).
		JSON([]map[string]any{
			{"user": map[string]any{"login": "bob"}, "body": "looks ok", "created_at": quietSince.Format(time.RFC3339)},
		})

	gock.New("https://api.github.com").
		Post("/repos/nextechgs/platform/issues/1/comments").
		JSON(map[string]string{
			"body": "This pull request has seen no activity for 14 days. Could the author or a reviewer take a look?",
		}).
		Reply(201).
		JSON(map[string]any{"id": 1})

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/pulls").
		Reply(200).
		JSON([]map[string]any{stalePR(1, quietSince.Add(-48*time.Hour))})

	errs := BumpStalePullRequests(context.Background(), gh, db,
		[]string{"nextechgs/platform"}, testBotLogin, now)

	assert.Equal(t, 0, CountErrors(errs))
	assert.Len(t, sentKeys(t, db), 1)
	assert.True(t, gock.IsDone())
}

func TestBumpStaleFollowupWhenBotAlreadyCommented(t *testing.T) {
	defer gock.Off()
	db := setupTestDB(t)
	gh := newTestGitHubClient(t)

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	quietSince := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	mockRemoteConfigAbsent("platform")

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/issues/1/comments").
		Reply(200).
		JSON([]map[string]any{
			{"user": map[string]any{"login": testBotLogin}, "body": "ping", "created_at": quietSince.Add(-24 * time.Hour).Format(time.RFC3339)},
			{"user": map[string]any{"login": "bob"}, "body": "will do", "created_at": quietSince.Format(time.RFC3339)},
		})

	gock.New("https://api.github.com").
		Post("/repos/nextechgs/platform/issues/1/comments").
		JSON(map[string]string{
			"body": "Bumping again: still no activity after 14 days. Please pick this up or close it.",
		}).
		Reply(201).
		JSON(map[string]any{"id": 2})

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/pulls").
		Reply(200).
		JSON([]map[string]any{stalePR(1, quietSince.Add(-48*time.Hour))})

	errs := BumpStalePullRequests(context.Background(), gh, db,
		[]string{"nextechgs/platform"}, testBotLogin, now)

	assert.Equal(t, 0, CountErrors(errs))
	assert.True(t, gock.IsDone())
}

func TestBumpStaleUnderThresholdDoesNothing(t *testing.T) {
	defer gock.Off()
	db := setupTestDB(t)
	gh := newTestGitHubClient(t)

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	mockRemoteConfigAbsent("platform")

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/issues/1/comments").
		Reply(200).
		JSON([]map[string]any{
			{"user": map[string]any{"login": "bob"}, "body": "on it", "created_at": recent.Format(time.RFC3339)},
		})

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/pulls").
		Reply(200).
		JSON([]map[string]any{stalePR(1, recent.Add(-30*24*time.Hour))})

	// no POST mock: a bump here would fail the batch
	errs := BumpStalePullRequests(context.Background(), gh, db,
		[]string{"nextechgs/platform"}, testBotLogin, now)

	assert.Equal(t, 0, CountErrors(errs))
	assert.Empty(t, sentKeys(t, db))
	assert.True(t, gock.IsDone())
}

func TestBumpStaleEmptyThreadCountsFromCreation(t *testing.T) {
	defer gock.Off()
	db := setupTestDB(t)
	gh := newTestGitHubClient(t)

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	created := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

	mockRemoteConfigAbsent("platform")

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/issues/1/comments").
		Reply(200).
		JSON([]map[string]any{})

	gock.New("https://api.github.com").
		Post("/repos/nextechgs/platform/issues/1/comments").
		Reply(201).
		JSON(map[string]any{"id": 3})

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/pulls").
		Reply(200).
		JSON([]map[string]any{stalePR(1, created)})

	errs := BumpStalePullRequests(context.Background(), gh, db,
		[]string{"nextechgs/platform"}, testBotLogin, now)

	assert.Equal(t, 0, CountErrors(errs))
	assert.Len(t, sentKeys(t, db), 1)
	assert.True(t, gock.IsDone())
}

func TestBumpStaleOneRepoFailureDoesNotAbortBatch(t *testing.T) {
	defer gock.Off()
	db := setupTestDB(t)
	gh := newTestGitHubClient(t)

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	mockRemoteConfigAbsent("broken")
	mockRemoteConfigAbsent("platform")

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/broken/pulls").
		Reply(500).
		JSON(map[string]string{"message": "boom"})

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/pulls").
		Reply(200).
		JSON([]map[string]any{})

	errs := BumpStalePullRequests(context.Background(), gh, db,
		[]string{"nextechgs/broken", "nextechgs/platform"}, testBotLogin, now)

	assert.Len(t, errs, 2)
	assert.Error(t, errs[0])
	assert.NoError(t, errs[1])
	assert.True(t, gock.IsDone())
}

func TestBumpStaleOncePerDay(t *testing.T) {
	defer gock.Off()
	db := setupTestDB(t)
	gh := newTestGitHubClient(t)

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	created := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

	assert.NoError(t, RecordSent(db, models.NotificationKindStale,
		"https://github.com/nextechgs/platform/pull/1", "stale:nextechgs/platform#1:2026-08-24"))

	mockRemoteConfigAbsent("platform")

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/issues/1/comments").
		Reply(200).
		JSON([]map[string]any{})

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/pulls").
		Reply(200).
		JSON([]map[string]any{stalePR(1, created)})

	// no POST mock: the second bump of the day would fail the batch
	errs := BumpStalePullRequests(context.Background(), gh, db,
		[]string{"nextechgs/platform"}, testBotLogin, now)

	assert.Equal(t, 0, CountErrors(errs))
	assert.True(t, gock.IsDone())
}

func TestBumpStaleHonorsRepositoryThreshold(t *testing.T) {
	defer gock.Off()
	db := setupTestDB(t)
	gh := newTestGitHubClient(t)

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	quietSince := time.Date(2026, 8, 4, 9, 0, 0, 0, time.UTC) // 20 days quiet

	// the repository raises its own threshold above the bundled default
	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/contents/concierge.yml").
		Reply(200).
		JSON(contentsJSON("concierge.yml", "concierge.yml", "maxDaysSinceLastComment: 30\n"))
	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/contents/templates").
		Reply(404).
		JSON(map[string]string{"message": "Not Found"})

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/issues/1/comments").
		Reply(200).
		JSON([]map[string]any{
			{"user": map[string]any{"login": "bob"}, "body": "reviewing", "created_at": quietSince.Format(time.RFC3339)},
		})

	gock.New("https://api.github.com").
		Get("/repos/nextechgs/platform/pulls").
		Reply(200).
		JSON([]map[string]any{stalePR(1, quietSince.Add(-48*time.Hour))})

	// no POST mock: 20 quiet days is under this repository's threshold of 30
	errs := BumpStalePullRequests(context.Background(), gh, db,
		[]string{"nextechgs/platform"}, testBotLogin, now)

	assert.Equal(t, 0, CountErrors(errs))
	assert.Empty(t, sentKeys(t, db))
	assert.True(t, gock.IsDone())
}

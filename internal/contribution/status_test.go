package contribution

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanClaimAfterVotePeriod(t *testing.T) {
	created := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	c := Contribution{ID: 1, CreateAt: created, Status: StatusReady}

	assert.False(t, CanClaim(c, created.AddDate(0, 0, 6), 7))
	assert.False(t, CanClaim(c, created.AddDate(0, 0, 7), 7))
	assert.True(t, CanClaim(c, created.AddDate(0, 0, 8), 7))

	c.Status = StatusUnready
	assert.False(t, CanClaim(c, created.AddDate(0, 0, 8), 7))
	c.Status = StatusClaim
	assert.False(t, CanClaim(c, created.AddDate(0, 0, 8), 7))
}

func TestClaimableKeepsOrder(t *testing.T) {
	created := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	list := []Contribution{
		{ID: 3, CreateAt: created, Status: StatusReady},
		{ID: 1, CreateAt: created.AddDate(0, 0, 5), Status: StatusReady},
		{ID: 2, CreateAt: created, Status: StatusClaim},
		{ID: 4, CreateAt: created.AddDate(0, 0, 1), Status: StatusReady},
	}
	got := Claimable(list, created.AddDate(0, 0, 9), 7)
	assert.Equal(t, []int64{3, 4}, ids(got))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusUnready.CanTransitionTo(StatusReady))
	assert.True(t, StatusReady.CanTransitionTo(StatusClaim))
	assert.False(t, StatusUnready.CanTransitionTo(StatusClaim))
	assert.False(t, StatusClaim.CanTransitionTo(StatusReady))
	assert.False(t, StatusReady.CanTransitionTo(StatusReady))
	assert.False(t, Status("DONE").CanTransitionTo(StatusReady))
}

func TestStatusPresentation(t *testing.T) {
	assert.Equal(t, "#64748B", StatusColor(StatusUnready))
	assert.Equal(t, "#0A9B80", StatusColor(StatusReady))
	assert.Equal(t, "#64748B", StatusColor(StatusClaim))

	assert.Equal(t, "wait", StatusCursor(StatusUnready))
	assert.Equal(t, "pointer", StatusCursor(StatusReady))
	assert.Equal(t, "not-allowed", StatusCursor(StatusClaim))
}

func TestStatusText(t *testing.T) {
	created := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	c := Contribution{CreateAt: created, Status: StatusUnready}

	cases := []struct {
		now  time.Time
		want string
	}{
		{created, "Vote ends in 7d 0h"},
		{created.Add(4*24*time.Hour + 5*time.Hour), "Vote ends in 2d 19h"},
		{created.Add(7*24*time.Hour - 90*time.Minute), "Vote ends in 1h 30m"},
		{created.Add(7*24*time.Hour - 150*time.Second), "Vote ends in 2m 30s"},
		{created.Add(7*24*time.Hour - 9*time.Second), "Vote ends in 9s"},
		{created.Add(8 * 24 * time.Hour), "Vote ended"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusText(c, tc.now, 7))
	}

	c.Status = StatusReady
	assert.Equal(t, "To be claimed", StatusText(c, created, 7))
	c.Status = StatusClaim
	assert.Equal(t, "Claimed", StatusText(c, created, 7))
}

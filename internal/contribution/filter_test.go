package contribution

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-05-15 周三
var wednesday = time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)

func ids(list []Contribution) []int64 {
	out := make([]int64, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

func sample() []Contribution {
	return []Contribution{
		{ID: 1, CreateAt: wednesday.AddDate(0, 0, -1), Status: StatusReady, ToIDs: []string{"alice"}},
		{ID: 2, CreateAt: wednesday.AddDate(0, 0, -2), Status: StatusUnready, ToIDs: []string{"alice"}},
		{ID: 3, CreateAt: wednesday.AddDate(0, 0, -5), Status: StatusClaim, ToIDs: []string{"bob"}},
		{ID: 4, CreateAt: wednesday.AddDate(0, 0, -20), Status: StatusReady, ToIDs: []string{"alice", "bob"}},
		{ID: 5, CreateAt: wednesday.AddDate(-1, 0, 0), Status: StatusReady, ToIDs: []string{"carol"}},
	}
}

func TestParseOptions(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodAll, p)

	p, err = ParsePeriod("Season")
	require.NoError(t, err)
	assert.Equal(t, PeriodSeason, p)

	_, err = ParsePeriod("Decade")
	assert.Error(t, err)

	s, err := ParseVoteStatus("UnVotedByMe")
	require.NoError(t, err)
	assert.Equal(t, VoteStatusUnVotedByMe, s)

	_, err = ParseVoteStatus("voted")
	assert.Error(t, err)
}

func TestWindowWeekStartsSunday(t *testing.T) {
	start, end := Window(PeriodWeek, wednesday)
	assert.Equal(t, time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Sunday, start.Weekday())
	assert.Equal(t, 2024, end.Year())
	assert.Equal(t, time.May, end.Month())
	assert.Equal(t, 18, end.Day())
	assert.Equal(t, time.Saturday, end.Weekday())
}

func TestWindowCalendarPeriods(t *testing.T) {
	start, _ := Window(PeriodMonth, wednesday)
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), start)

	start, end := Window(PeriodSeason, wednesday)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.June, end.Month())

	start, _ = Window(PeriodYear, wednesday)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), start)

	start, end = Window(PeriodAll, wednesday)
	assert.Equal(t, 2019, start.Year())
	assert.Equal(t, 2034, end.Year())
}

func TestWindowFollowsViewerTimeZone(t *testing.T) {
	shanghai, err := ParseLocation("Asia/Shanghai")
	require.NoError(t, err)

	// UTC 周六晚上在东八区已是周日
	saturday := time.Date(2024, time.May, 11, 20, 0, 0, 0, time.UTC)
	start, _ := Window(PeriodWeek, saturday)
	assert.Equal(t, time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC), start)

	start, _ = Window(PeriodWeek, saturday.In(shanghai))
	assert.True(t, start.Equal(time.Date(2024, time.May, 11, 16, 0, 0, 0, time.UTC)), "%v", start)

	list := []Contribution{{ID: 1, CreateAt: time.Date(2024, time.May, 11, 17, 0, 0, 0, time.UTC), Status: StatusReady}}
	opts := DefaultOptions()
	opts.Period = PeriodWeek
	assert.Len(t, Filter(list, opts, Env{Now: saturday}), 1)
	assert.Len(t, Filter(list, opts, Env{Now: saturday.In(shanghai)}), 1)

	// 周日之前的贡献在东八区属于上一周
	list[0].CreateAt = time.Date(2024, time.May, 11, 15, 0, 0, 0, time.UTC)
	assert.Len(t, Filter(list, opts, Env{Now: saturday}), 1)
	assert.Empty(t, Filter(list, opts, Env{Now: saturday.In(shanghai)}))

	loc, err := ParseLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = ParseLocation("Mars/Olympus")
	assert.Error(t, err)
}

func TestFilterDefaultExcludesUnready(t *testing.T) {
	got := Filter(sample(), DefaultOptions(), Env{Now: wednesday, VotePeriodDays: 7})
	assert.Equal(t, []int64{1, 3, 4, 5}, ids(got))
	for _, c := range got {
		assert.NotEqual(t, StatusUnready, c.Status)
	}
}

func TestFilterWeek(t *testing.T) {
	// 第 5 条在上周之前，第 4 条在 20 天前，都不在本周
	opts := DefaultOptions()
	opts.Period = PeriodWeek
	got := Filter(sample(), opts, Env{Now: wednesday, VotePeriodDays: 7})
	assert.Equal(t, []int64{1}, ids(got))

	lastSunday := []Contribution{
		{ID: 10, CreateAt: time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC), Status: StatusReady},
		{ID: 11, CreateAt: time.Date(2024, time.May, 11, 23, 59, 0, 0, time.UTC), Status: StatusReady},
	}
	got = Filter(lastSunday, opts, Env{Now: wednesday})
	assert.Equal(t, []int64{10}, ids(got))
}

func TestFilterVoteStatus(t *testing.T) {
	env := Env{
		Now:            wednesday,
		VotePeriodDays: 7,
		MyVotes:        map[string]int{"1": 1, "4": 2},
	}

	opts := DefaultOptions()
	opts.VoteStatus = VoteStatusVoteByMe
	assert.Equal(t, []int64{1, 4}, ids(Filter(sample(), opts, env)))

	opts.VoteStatus = VoteStatusUnVotedByMe
	assert.Equal(t, []int64{3, 5}, ids(Filter(sample(), opts, env)))

	opts.VoteStatus = VoteStatusVoteEnded
	assert.Equal(t, []int64{4, 5}, ids(Filter(sample(), opts, env)))
}

func TestFilterContributor(t *testing.T) {
	opts := DefaultOptions()
	opts.Contributor = "bob"
	got := Filter(sample(), opts, Env{Now: wednesday, VotePeriodDays: 7})
	assert.Equal(t, []int64{3, 4}, ids(got))

	opts.Contributor = "nobody"
	assert.Empty(t, Filter(sample(), opts, Env{Now: wednesday}))
}

func TestFilterIsIdempotent(t *testing.T) {
	env := Env{Now: wednesday, VotePeriodDays: 7, MyVotes: map[string]int{"3": 3}}
	for _, opts := range []FilterOptions{
		DefaultOptions(),
		{Period: PeriodMonth, VoteStatus: VoteStatusUnVotedByMe, Contributor: "alice"},
		{Period: PeriodYear, VoteStatus: VoteStatusVoteEnded, Contributor: AllContributors},
		{Period: PeriodSeason, VoteStatus: VoteStatusVoteByMe, Contributor: "bob"},
	} {
		once := Filter(sample(), opts, env)
		twice := Filter(once, opts, env)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("filter %+v not idempotent (-once +twice):\n%s", opts, diff)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	in := sample()
	before := sample()
	_ = Filter(in, FilterOptions{Period: PeriodWeek, Contributor: "alice"}, Env{Now: wednesday})
	if diff := cmp.Diff(before, in); diff != "" {
		t.Errorf("input changed (-want +got):\n%s", diff)
	}
}

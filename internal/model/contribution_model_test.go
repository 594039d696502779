package model

import (
	"testing"
	"time"

	"github.com/lxdao/fairsharing/internal/contribution"
	"github.com/stretchr/testify/assert"
)

func TestContributionRecord(t *testing.T) {
	created := time.Date(2024, time.June, 3, 8, 0, 0, 0, time.UTC)
	m := &ContributionModel{Id: 9, CreatedAt: created, Status: contribution.StatusReady}
	m.SetContributorIds([]string{"12", "15"})
	assert.Equal(t, `["12","15"]`, m.ToIds)

	r := m.Record()
	assert.Equal(t, int64(9), r.ID)
	assert.Equal(t, created, r.CreateAt)
	assert.True(t, r.Credits("15"))
	assert.False(t, r.Credits("1"))

	m.SetContributorIds(nil)
	assert.Equal(t, "[]", m.ToIds)

	m.ToIds = "not json"
	assert.Nil(t, m.ContributorIds())
}

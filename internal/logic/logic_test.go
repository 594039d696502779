package logic

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/lxdao/fairsharing/internal/contribution"
	"github.com/lxdao/fairsharing/internal/database"
	"github.com/lxdao/fairsharing/internal/errs"
	"github.com/lxdao/fairsharing/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const wallet = "0x00000000000000000000000000000000000A11cE"

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := database.Open(postgres.New(postgres.Config{Conn: sqlDB}))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})
	return db, mock
}

func TestGetProjectNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "project" WHERE "project"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewProjectLogic(db).GetProject(context.Background(), 5)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestHasProject(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "project" WHERE contract_address = \$1 AND \(creator_wallet = \$2 OR id IN \(SELECT .*project_id.* FROM "contributor" WHERE wallet = \$3\)\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := NewProjectLogic(db).HasProject(context.Background(), wallet, "0x00000000000000000000000000000000000000aa")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateProjectReturnsExisting(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "project" WHERE contract_address = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "contract_address"}).
			AddRow(3, "FairSharing", "0x00000000000000000000000000000000000000aA"))

	project, err := NewProjectLogic(db).CreateProject(context.Background(), RegisterProject{
		Request:         CreateProjectRequest{Wallet: wallet, Name: "FairSharing"},
		ContractAddress: "0x00000000000000000000000000000000000000aa",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), project.Id)
}

func TestGetUserInfo(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "user" WHERE "user"."wallet" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet", "name"}).AddRow(7, wallet, "alice"))

	users := NewUserLogic(db)
	user, err := users.GetUserInfo(context.Background(), "0x00000000000000000000000000000000000a11ce")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.Id)
	assert.Equal(t, "alice", user.Name)

	_, err = users.GetUserInfo(context.Background(), "alice")
	assert.True(t, errs.IsValidation(err))
}

func contributionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "project_id", "status", "to_ids", "uid", "created_at"})
}

func TestMarkReady(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "contribution" WHERE "contribution"."id" = \$1`).
		WillReturnRows(contributionRows().AddRow(4, 1, "UNREADY", `["1"]`, "", time.Now()))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contribution" SET .* WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	record, err := NewContributionLogic(db).MarkReady(context.Background(), 4, "0xuid")
	require.NoError(t, err)
	assert.Equal(t, contribution.StatusReady, record.Status)
	assert.Equal(t, "0xuid", record.UId)
}

func TestMarkReadyRejectsInvalidTransition(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "contribution"`).
		WillReturnRows(contributionRows().AddRow(4, 1, "CLAIM", `["1"]`, "0xuid", time.Now()))

	logic := NewContributionLogic(db)
	_, err := logic.MarkReady(context.Background(), 4, "0xuid")
	assert.True(t, errs.IsValidation(err))

	_, err = logic.MarkReady(context.Background(), 4, " ")
	assert.True(t, errs.IsValidation(err))
}

func TestMarkClaimedBeforeVoteEnds(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "contribution"`).
		WillReturnRows(contributionRows().AddRow(4, 1, "READY", `["1"]`, "0xuid", now.AddDate(0, 0, -6)))
	mock.ExpectQuery(`SELECT \* FROM "project"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vote_period"}).AddRow(1, 7))

	_, err := NewContributionLogic(db).MarkClaimed(context.Background(), 4, now)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestFiltered(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "project"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vote_period"}).AddRow(1, 7))
	mock.ExpectQuery(`SELECT \* FROM "contribution" WHERE project_id = \$1 ORDER BY created_at DESC`).
		WillReturnRows(contributionRows().
			AddRow(3, 1, "READY", `["1"]`, "0xa", now.AddDate(0, 0, -1)).
			AddRow(2, 1, "UNREADY", `["1"]`, "", now.AddDate(0, 0, -2)).
			AddRow(1, 1, "READY", `["1","2"]`, "0xb", now.AddDate(0, 0, -10)))

	opts := contribution.DefaultOptions()
	opts.VoteStatus = contribution.VoteStatusUnVotedByMe
	views, err := NewContributionLogic(db).Filtered(context.Background(), 1, opts, map[string]int{"3": 1}, now)
	require.NoError(t, err)

	require.Len(t, views, 1)
	got := views[0]
	assert.Equal(t, int64(1), got.Id)
	assert.True(t, got.Claimable)
	assert.Equal(t, "To be claimed", got.StatusText)
	assert.Equal(t, "#0A9B80", got.StatusColor)
	assert.Equal(t, "pointer", got.StatusCursor)
	if diff := cmp.Diff([]string{"1", "2"}, got.ContributorIds); diff != "" {
		t.Errorf("contributor ids (-want +got):\n%s", diff)
	}
}

func TestVotes(t *testing.T) {
	db, mock := newMockDB(t)
	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "project_id", "contribution_id", "voter", "value"}).
			AddRow(1, 1, 3, wallet, 1).
			AddRow(2, 1, 4, wallet, 3)
	}
	mock.ExpectQuery(`SELECT \* FROM "vote_attestation" WHERE project_id = \$1 AND voter = \$2`).WillReturnRows(rows())
	mock.ExpectQuery(`SELECT \* FROM "vote_attestation" WHERE project_id = \$1`).WillReturnRows(rows().
		AddRow(3, 1, 3, "0x0000000000000000000000000000000000000B0b", 2))

	attestations := NewAttestationLogic(db)
	mine, err := attestations.MyVotes(context.Background(), 1, wallet)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"3": 1, "4": 3}, mine)

	tallies, err := attestations.VoteMap(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, VoteTally{For: 1, Against: 1}, tallies["3"])
	assert.Equal(t, VoteTally{Abstain: 1}, tallies["4"])

	empty, err := attestations.MyVotes(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRecordVoteValidation(t *testing.T) {
	db, _ := newMockDB(t)
	attestations := NewAttestationLogic(db)

	for _, req := range []VoteRequest{
		{Voter: wallet, Value: model.VoteFor},
		{UId: "0x1", Voter: "alice", Value: model.VoteFor},
		{UId: "0x1", Voter: wallet, Value: 4},
	} {
		_, err := attestations.Record(context.Background(), 1, req)
		assert.True(t, errs.IsValidation(err), "%+v", req)
	}
}

func TestRecordEventReadsExisting(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "event" WHERE tx_hash = \$1 AND log_index = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tx_hash", "log_index", "processed"}).AddRow(9, "0xabc", 0, true))

	event := &model.EventModel{
		ContractAddress: "0xA164E14558B4665ee512cF15dD12d1a7A8492830",
		ContractName:    "project_registry",
		EventType:       "ProjectCreated",
		TxHash:          "0xabc",
		BlockNum:        120,
	}
	require.NoError(t, NewEventLogic(db).RecordEvent(context.Background(), event))
	assert.Equal(t, int64(9), event.Id)
	assert.True(t, event.Processed)
}

package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"expense-manager/internal/session"
	"expense-manager/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LedgerTestSuite struct {
	suite.Suite
	db     *storage.DB
	ledger *Ledger
	sess   session.Session
}

func (suite *LedgerTestSuite) SetupTest() {
	db, err := storage.NewDB(filepath.Join(suite.T().TempDir(), "expenses.db"))
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db

	user, err := db.CreateUser("alice", "hash")
	require.NoError(suite.T(), err)
	suite.sess = session.Session{UserID: user.ID, Username: user.Username}

	suite.ledger = New(db)
	suite.ledger.now = func() time.Time {
		return time.Date(2024, 5, 4, 10, 30, 15, 999, time.UTC)
	}
}

func (suite *LedgerTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *LedgerTestSuite) TestAddThenListRecent() {
	t := suite.T()

	added, err := suite.ledger.AddExpense(suite.sess, Input{Amount: "42.50", Category: "Food", Description: "Dinner"})
	require.NoError(t, err)
	assert.Equal(t, 42.50, added.Amount)

	recent, err := suite.ledger.ListRecent(suite.sess, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 42.50, recent[0].Amount)
	assert.Equal(t, "Food", recent[0].Category)
	assert.Equal(t, "Dinner", recent[0].Description)
	assert.True(t, recent[0].Time.Equal(time.Date(2024, 5, 4, 10, 30, 15, 0, time.UTC)),
		"missing time should default to now, truncated to the second")
}

func (suite *LedgerTestSuite) TestInvalidAmountInsertsNothing() {
	t := suite.T()

	for _, amount := range []string{"abc", "", "NaN", "1.2.3"} {
		_, err := suite.ledger.AddExpense(suite.sess, Input{Amount: amount, Category: "Food"})
		require.Error(t, err, "amount %q", amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "amount", verr.Field)
	}

	count, err := suite.db.ExpenseCount(suite.sess.UserID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func (suite *LedgerTestSuite) TestEmptyCategoryInsertsNothing() {
	_, err := suite.ledger.AddExpense(suite.sess, Input{Amount: "5", Category: "   "})
	assert.ErrorIs(suite.T(), err, ErrEmptyCategory)

	var verr *ValidationError
	require.ErrorAs(suite.T(), err, &verr)
	assert.Equal(suite.T(), "category", verr.Field)

	count, err := suite.db.ExpenseCount(suite.sess.UserID)
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), count)
}

func (suite *LedgerTestSuite) TestCommaDecimal() {
	e, err := suite.ledger.AddExpense(suite.sess, Input{Amount: "12,75", Category: "Other"})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 12.75, e.Amount)
}

func (suite *LedgerTestSuite) TestListRecentDefaultLimit() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < storage.DefaultLimit+5; i++ {
		_, err := suite.ledger.AddExpense(suite.sess, Input{
			Time:     base.Add(time.Duration(i) * time.Hour),
			Amount:   "1",
			Category: "Food",
		})
		require.NoError(suite.T(), err)
	}

	recent, err := suite.ledger.ListRecent(suite.sess, 0)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), recent, storage.DefaultLimit)
	assert.True(suite.T(), recent[0].Time.After(recent[1].Time), "newest first")
}

func (suite *LedgerTestSuite) TestRequiresSession() {
	_, err := suite.ledger.AddExpense(session.Session{}, Input{Amount: "1", Category: "Food"})
	assert.ErrorIs(suite.T(), err, session.ErrNotLoggedIn)

	_, err = suite.ledger.ListRecent(session.Session{}, 10)
	assert.ErrorIs(suite.T(), err, session.ErrNotLoggedIn)
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

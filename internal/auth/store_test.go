package auth

import (
	"path/filepath"
	"testing"

	"expense-manager/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StoreTestSuite exercises the credential store against a real database file
type StoreTestSuite struct {
	suite.Suite
	db    *storage.DB
	store *Store
}

func (suite *StoreTestSuite) SetupTest() {
	db, err := storage.NewDB(filepath.Join(suite.T().TempDir(), "expenses.db"))
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db
	suite.store = NewStore(db, SchemePlain)
}

func (suite *StoreTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *StoreTestSuite) TestSignUpSignInScenario() {
	t := suite.T()

	sess, err := suite.store.Register("alice", Digest("pw1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), sess.UserID)
	assert.Equal(t, "alice", sess.Username)

	_, err = suite.store.Register("alice", Digest("pw2"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	res, err := suite.store.Authenticate("alice", Digest("pw1"))
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, int64(1), res.Session.UserID)
	assert.NoError(t, res.Err())

	res, err = suite.store.Authenticate("alice", Digest("pw2"))
	require.NoError(t, err)
	assert.Equal(t, StatusMismatch, res.Status)
	assert.False(t, res.Session.Valid(), "mismatch must not yield a session")
	assert.ErrorIs(t, res.Err(), ErrCredentialMismatch)
}

func (suite *StoreTestSuite) TestDuplicateLeavesUserCountUnchanged() {
	t := suite.T()

	_, err := suite.store.Register("bob", Digest("secret"))
	require.NoError(t, err)

	_, err = suite.store.Register("bob", Digest("other"))
	require.ErrorIs(t, err, ErrUsernameTaken)

	count, err := suite.db.UserCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The original credential still works
	res, err := suite.store.Authenticate("bob", Digest("secret"))
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
}

func (suite *StoreTestSuite) TestUnknownUser() {
	res, err := suite.store.Authenticate("nobody", Digest("x"))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), StatusNotFound, res.Status)
	assert.ErrorIs(suite.T(), res.Err(), ErrUserNotFound)
}

func (suite *StoreTestSuite) TestEmptyCredentials() {
	_, err := suite.store.Register("  ", Digest("x"))
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)

	_, err = suite.store.Authenticate("alice", "")
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *StoreTestSuite) TestBcryptUsersCoexistWithPlain() {
	t := suite.T()

	_, err := suite.store.Register("legacy", Digest("old"))
	require.NoError(t, err)

	upgraded := NewStore(suite.db, SchemeBcrypt)
	_, err = upgraded.Register("modern", Digest("new"))
	require.NoError(t, err)

	user, err := suite.db.GetUserByUsername("modern")
	require.NoError(t, err)
	assert.NotEqual(t, Digest("new"), user.PassHash, "bcrypt scheme must not store the bare digest")

	for _, tc := range []struct {
		username, password string
	}{
		{"legacy", "old"},
		{"modern", "new"},
	} {
		res, err := upgraded.Authenticate(tc.username, Digest(tc.password))
		require.NoError(t, err)
		assert.Equal(t, StatusOK, res.Status, "user %s", tc.username)
	}

	res, err := upgraded.Authenticate("modern", Digest("wrong"))
	require.NoError(t, err)
	assert.Equal(t, StatusMismatch, res.Status)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

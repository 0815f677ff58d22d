package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankportal/models"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestLoadWithoutFileStaysAnonymous(t *testing.T) {
	s := NewStore(tempPath(t))
	s.Load()
	_, ok := s.Current()
	assert.False(t, ok)
	assert.False(t, s.Enriched())
}

func TestSetBasicPersistsAndRestores(t *testing.T) {
	path := tempPath(t)
	s := NewStore(path)
	s.SetBasic(models.User{ID: "SSN1", SSN: "SSN1", Role: models.RoleCustomer})

	restored := NewStore(path)
	restored.Load()
	user, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, "SSN1", user.SSN)
	assert.False(t, restored.Enriched())
}

func TestSetEnrichedSurvivesRestart(t *testing.T) {
	path := tempPath(t)
	s := NewStore(path)
	s.SetEnriched(models.User{
		ID: "SSN1", SSN: "SSN1", Role: models.RoleCustomer,
		AccountNo: "ACC1", Balance: decimal.NewFromInt(500),
	})

	restored := NewStore(path)
	restored.Load()
	user, ok := restored.Current()
	require.True(t, ok)
	assert.True(t, restored.Enriched())
	assert.Equal(t, "ACC1", user.AccountNo)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(500)))
}

func TestUpdateMergesAndPersists(t *testing.T) {
	path := tempPath(t)
	s := NewStore(path)
	s.SetEnriched(models.User{ID: "SSN1", Role: models.RoleCustomer, Balance: decimal.NewFromInt(100)})

	s.Update(func(u *models.User) { u.Balance = decimal.NewFromInt(250) })

	restored := NewStore(path)
	restored.Load()
	user, ok := restored.Current()
	require.True(t, ok)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(250)))
}

func TestUpdateOnAnonymousIsNoop(t *testing.T) {
	path := tempPath(t)
	s := NewStore(path)
	s.Update(func(u *models.User) { u.Balance = decimal.NewFromInt(9) })
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestClearDropsStateAndFile(t *testing.T) {
	path := tempPath(t)
	s := NewStore(path)
	s.SetBasic(models.User{ID: "SSN1", Role: models.RoleCustomer})
	s.Clear()

	_, ok := s.Current()
	assert.False(t, ok)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing an already-clear store is fine.
	s.Clear()
}

func TestHasRole(t *testing.T) {
	s := NewStore(tempPath(t))
	assert.False(t, s.HasRole(models.RoleManager))
	s.SetBasic(models.User{ID: "M1", Role: models.RoleManager})
	assert.True(t, s.HasRole(models.RoleManager))
	assert.False(t, s.HasRole(models.RoleCustomer))
}

package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/msomdec/recipe-box/internal/domain"
	"github.com/msomdec/recipe-box/internal/repository/sqlite"
	"github.com/msomdec/recipe-box/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	// Use cost 4 for fast tests.
	return service.NewAuthService(db.Users(), testJWTSecret, 4, time.Hour), db
}

func createTestUser(t *testing.T, auth *service.AuthService, email string) *domain.User {
	t.Helper()
	user, err := auth.Register(context.Background(), service.RegisterInput{
		Email:    email,
		Password: "testpass123",
		Name:     "Test Name",
	})
	require.NoError(t, err)
	return user
}

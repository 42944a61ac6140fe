//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/tooodo-server/internal/model"
	repo "github.com/dtroode/tooodo-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "tooodo_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/tooodo_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	t.Run("user_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)

		saved, err := ur.Create(ctx, model.User{
			ID:           uuid.New(),
			Email:        "user@example.com",
			Name:         "User",
			PasswordHash: "digest",
		})
		require.NoError(t, err)
		require.False(t, saved.IsEmailVerified)

		byEmail, err := ur.GetByEmail(ctx, saved.Email)
		require.NoError(t, err)
		require.Equal(t, saved.ID, byEmail.ID)

		verified, err := ur.SetEmailVerified(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, verified.IsEmailVerified)

		renamed, err := ur.UpdateName(ctx, saved.ID, "Renamed")
		require.NoError(t, err)
		require.Equal(t, "Renamed", renamed.Name)

		deleted, err := ur.SoftDelete(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, deleted.IsDeleted)

		_, err = ur.GetByEmail(ctx, saved.Email)
		require.ErrorIs(t, err, model.ErrNotFound)
		_, err = ur.GetByID(ctx, saved.ID)
		require.ErrorIs(t, err, model.ErrNotFound)

		require.NoError(t, ur.HardDelete(ctx, saved.ID))
	})

	t.Run("session_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		sr := repo.NewSessionRepository(conn)

		owner, err := ur.Create(ctx, model.User{
			ID:           uuid.New(),
			Email:        "owner@example.com",
			Name:         "Owner",
			PasswordHash: "digest",
		})
		require.NoError(t, err)

		now := time.Now().Truncate(time.Microsecond)
		second, err := sr.Create(ctx, model.Session{
			ID:        uuid.New(),
			Token:     "token-b",
			ExpiresAt: now.Add(2 * time.Hour),
			UserID:    owner.ID,
		})
		require.NoError(t, err)
		first, err := sr.Create(ctx, model.Session{
			ID:        uuid.New(),
			Token:     "token-a",
			ExpiresAt: now.Add(time.Hour),
			UserID:    owner.ID,
		})
		require.NoError(t, err)

		// listed ascending by expiry regardless of insert order
		sessions, err := sr.ListByUser(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		require.Equal(t, first.ID, sessions[0].ID)
		require.Equal(t, second.ID, sessions[1].ID)

		byToken, err := sr.GetByToken(ctx, "token-a")
		require.NoError(t, err)
		require.Equal(t, first.ID, byToken.ID)

		rotated, err := sr.Rotate(ctx, "token-a", "token-a2", now.Add(3*time.Hour))
		require.NoError(t, err)
		require.Equal(t, first.ID, rotated.ID)
		require.Equal(t, "token-a2", rotated.Token)

		_, err = sr.GetByToken(ctx, "token-a")
		require.ErrorIs(t, err, model.ErrNotFound)

		_, err = sr.Rotate(ctx, "token-a", "token-a3", now)
		require.ErrorIs(t, err, model.ErrNotFound)

		require.NoError(t, sr.Delete(ctx, first.ID))
		require.NoError(t, sr.Delete(ctx, second.ID))
		require.NoError(t, ur.HardDelete(ctx, owner.ID))
	})
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	uow := repo.NewUnitOfWork(conn)
	email := "rollback@example.com"

	err = uow.Do(ctx, func(ctx context.Context, s model.Stores) error {
		if _, err := s.Users().Create(ctx, model.User{
			ID:           uuid.New(),
			Email:        email,
			Name:         "R",
			PasswordHash: "digest",
		}); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	ur := repo.NewUserRepository(conn)
	_, err = ur.GetByEmail(ctx, email)
	require.ErrorIs(t, err, model.ErrNotFound)
}

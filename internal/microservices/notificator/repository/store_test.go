package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafesync/internal/connections/database/dbtest"
	"cafesync/internal/connections/firebase/fbtest"
	"cafesync/internal/domain"
)

// eachStore runs fn against every backend, starting from an empty log.
// Postgres and Firestore run only when CAFESYNC_TEST_DATABASE_URL or
// FIRESTORE_EMULATOR_HOST is set.
func eachStore(t *testing.T, fn func(t *testing.T, repo NotificationRepositoryInterface)) {
	run := func(name string, open func(t *testing.T) NotificationRepositoryInterface) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			require.NoError(t, repo.Clear(context.Background()))
			fn(t, repo)
		})
	}
	run("memory", func(*testing.T) NotificationRepositoryInterface { return NewMemory() })
	run("postgres", func(t *testing.T) NotificationRepositoryInterface { return NewPostgres(dbtest.Open(t)) })
	run("firestore", func(t *testing.T) NotificationRepositoryInterface { return NewFirestore(fbtest.Client(t)) })
}

func note(i int, at time.Time) domain.Notification {
	return domain.Notification{
		ID:        uuid.NewString(),
		Type:      domain.NotifyInfo,
		Title:     "New Order",
		Message:   fmt.Sprintf("New order #%d received", i),
		Timestamp: at,
	}
}

func TestLogKeepsNewestHundred(t *testing.T) {
	eachStore(t, func(t *testing.T, repo NotificationRepositoryInterface) {
		ctx := context.Background()
		base := time.Now().UTC().Truncate(time.Millisecond)
		extra := 5
		for i := 1; i <= domain.MaxNotifications+extra; i++ {
			require.NoError(t, repo.Add(ctx, note(i, base.Add(time.Duration(i)*time.Second))))
		}

		list, err := repo.List(ctx, false)
		require.NoError(t, err)
		require.Len(t, list, domain.MaxNotifications)
		assert.Equal(t, fmt.Sprintf("New order #%d received", domain.MaxNotifications+extra), list[0].Message)
		assert.Equal(t, fmt.Sprintf("New order #%d received", extra+1), list[len(list)-1].Message)
	})
}

func TestMarkAllReadAndClear(t *testing.T) {
	eachStore(t, func(t *testing.T, repo NotificationRepositoryInterface) {
		ctx := context.Background()
		base := time.Now().UTC().Truncate(time.Millisecond)
		var first domain.Notification
		for i := 1; i <= 30; i++ {
			n := note(i, base.Add(time.Duration(i)*time.Second))
			if i == 1 {
				first = n
			}
			require.NoError(t, repo.Add(ctx, n))
		}

		read, err := repo.MarkRead(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, read.Read)

		_, err = repo.MarkRead(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrNotFound)

		updated, err := repo.MarkAllRead(ctx)
		require.NoError(t, err)
		assert.Equal(t, 29, updated)

		unread, err := repo.List(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, unread)

		updated, err = repo.MarkAllRead(ctx)
		require.NoError(t, err)
		assert.Zero(t, updated)

		require.NoError(t, repo.Clear(ctx))
		list, err := repo.List(ctx, false)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

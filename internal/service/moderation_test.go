package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/alumni-portal-server/internal/apierrors"
	"github.com/dtroode/alumni-portal-server/internal/mocks"
	"github.com/dtroode/alumni-portal-server/internal/model"
	"github.com/dtroode/alumni-portal-server/internal/testutil"
)

func TestModeration(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	admin := model.Account{ID: uuid.New(), IsAdmin: true, Status: model.StatusApproved, CreatedAt: now.Add(-time.Hour)}
	member := model.Account{ID: uuid.New(), Status: model.StatusApproved, CreatedAt: now.Add(-time.Hour)}
	older := model.Account{ID: uuid.New(), Status: model.StatusPending, CreatedAt: now.Add(-2 * time.Minute)}
	newer := model.Account{ID: uuid.New(), Status: model.StatusPending, CreatedAt: now.Add(-time.Minute)}

	newModeration := func() *Moderation {
		return NewModeration(newMemStore(admin, member, older, newer), testutil.MakeNoopLogger())
	}

	t.Run("admin lists pending oldest first", func(t *testing.T) {
		got, err := newModeration().ListPending(ctx, admin.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, older.ID, got[0].ID)
		assert.Equal(t, newer.ID, got[1].ID)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		m := newModeration()

		_, err := m.ListPending(ctx, member.ID)
		assert.Equal(t, apierrors.KindForbidden, apierrors.KindOf(err))

		_, err = m.SetStatus(ctx, member.ID, older.ID.String(), model.StatusApproved)
		assert.Equal(t, apierrors.KindForbidden, apierrors.KindOf(err))
	})

	t.Run("approve is terminal", func(t *testing.T) {
		m := newModeration()

		got, err := m.SetStatus(ctx, admin.ID, older.ID.String(), model.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, got.Status)

		_, err = m.SetStatus(ctx, admin.ID, older.ID.String(), model.StatusRejected)
		assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
	})

	t.Run("reject is terminal", func(t *testing.T) {
		m := newModeration()

		_, err := m.SetStatus(ctx, admin.ID, newer.ID.String(), model.StatusRejected)
		require.NoError(t, err)

		_, err = m.SetStatus(ctx, admin.ID, newer.ID.String(), model.StatusApproved)
		assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
	})

	t.Run("bad input", func(t *testing.T) {
		m := newModeration()

		_, err := m.SetStatus(ctx, admin.ID, "nope", model.StatusApproved)
		assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))

		_, err = m.SetStatus(ctx, admin.ID, older.ID.String(), model.AccountStatus("banned"))
		assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))

		_, err = m.SetStatus(ctx, admin.ID, uuid.NewString(), model.StatusApproved)
		assert.Equal(t, apierrors.KindNotFound, apierrors.KindOf(err))
	})

	t.Run("concurrent decisions on one account", func(t *testing.T) {
		store := &readBarrierStore{memStore: newMemStore(admin, older), target: older.ID}
		store.reads.Add(2)
		m := NewModeration(store, testutil.MakeNoopLogger())

		decisions := []model.AccountStatus{model.StatusApproved, model.StatusRejected}
		errs := make([]error, len(decisions))
		var wg sync.WaitGroup
		for i, status := range decisions {
			i, status := i, status
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = m.SetStatus(ctx, admin.ID, older.ID.String(), status)
			}()
		}
		wg.Wait()

		var succeeded int
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
		}
		assert.Equal(t, 1, succeeded)

		final, err := store.GetByID(ctx, older.ID)
		require.NoError(t, err)
		assert.NotEqual(t, model.StatusPending, final.Status)
	})

	t.Run("status changed between read and write", func(t *testing.T) {
		store := mocks.NewAccountStore(t)
		m := NewModeration(store, testutil.MakeNoopLogger())

		store.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
		store.On("GetByID", mock.Anything, older.ID).Return(older, nil)
		store.On("UpdateStatus", mock.Anything, older.ID, model.StatusPending, model.StatusRejected).
			Return(model.Account{}, model.ErrStatusChanged)

		_, err := m.SetStatus(ctx, admin.ID, older.ID.String(), model.StatusRejected)
		assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
		assert.ErrorIs(t, err, model.ErrStatusChanged)
	})

	t.Run("deleted caller", func(t *testing.T) {
		_, err := newModeration().ListPending(ctx, uuid.New())
		assert.Equal(t, apierrors.KindInvalidToken, apierrors.KindOf(err))
	})

	t.Run("store failure", func(t *testing.T) {
		store := mocks.NewAccountStore(t)
		m := NewModeration(store, testutil.MakeNoopLogger())

		store.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
		store.On("ListByStatus", mock.Anything, model.StatusPending).Return(nil, errors.New("db down"))

		_, err := m.ListPending(ctx, admin.ID)
		assert.Equal(t, apierrors.KindServerError, apierrors.KindOf(err))
	})
}

// readBarrierStore holds the first two reads of target until both have
// happened, so both callers observe the same status.
type readBarrierStore struct {
	*memStore
	target uuid.UUID
	reads  sync.WaitGroup
	seen   atomic.Int32
}

func (s *readBarrierStore) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	account, err := s.memStore.GetByID(ctx, id)
	if id == s.target && s.seen.Add(1) <= 2 {
		s.reads.Done()
		s.reads.Wait()
	}
	return account, err
}

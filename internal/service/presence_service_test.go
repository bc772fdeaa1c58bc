package service

import (
	"context"
	"errors"
	"testing"

	"github.com/driveline/driveline/pkg/constant"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLastSeenStore struct {
	lastSeen map[int64]*int64
	err      error
}

func (f *fakeLastSeenStore) GetLastSeenByIds(ctx context.Context, ids []int64) (map[int64]*int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lastSeen, nil
}

func ts(v int64) *int64 { return &v }

func TestPresenceService_BatchLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input yields empty result", func(t *testing.T) {
		svc := &PresenceService{users: &fakeLastSeenStore{}}

		result, err := svc.BatchLookup(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("preserves request order and fills unknowns", func(t *testing.T) {
		store := &fakeLastSeenStore{lastSeen: map[int64]*int64{
			2: ts(1700000000000),
			7: nil,
		}}
		svc := &PresenceService{users: store}

		result, err := svc.BatchLookup(ctx, []int64{7, 99, 2})
		require.NoError(t, err)
		require.Len(t, result, 3)

		assert.Equal(t, int64(7), result[0].UserId)
		assert.Nil(t, result[0].LastSeen)

		// unknown users are reported, not dropped
		assert.Equal(t, int64(99), result[1].UserId)
		assert.Nil(t, result[1].LastSeen)

		assert.Equal(t, int64(2), result[2].UserId)
		require.NotNil(t, result[2].LastSeen)
		assert.Equal(t, int64(1700000000000), *result[2].LastSeen)

		// live state is never claimed from the durable baseline
		for _, info := range result {
			assert.Equal(t, constant.PresenceOffline, info.Status)
		}
	})

	t.Run("store failure maps to server error", func(t *testing.T) {
		svc := &PresenceService{users: &fakeLastSeenStore{err: errors.New("db down")}}

		_, err := svc.BatchLookup(ctx, []int64{1})
		assert.Equal(t, errcode.ErrServer, err)
	})
}

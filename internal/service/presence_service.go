package service

import (
	"context"

	"github.com/driveline/driveline/internal/entity"
	"github.com/driveline/driveline/internal/repository"
	"github.com/driveline/driveline/pkg/constant"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/mbeoliero/kit/log"
)

// LastSeenStore is the durable presence baseline
type LastSeenStore interface {
	GetLastSeenByIds(ctx context.Context, ids []int64) (map[int64]*int64, error)
}

// PresenceService serves the durable presence baseline over HTTP. It always
// reports offline; live online state reaches clients through presence events
// on the websocket, and clients merge the two.
type PresenceService struct {
	users LastSeenStore
}

// NewPresenceService creates a new PresenceService
func NewPresenceService(repos *repository.Repositories) *PresenceService {
	return &PresenceService{users: repos.User}
}

// BatchLookup returns one entry per requested user, preserving request order.
// Unknown users get a nil last_seen instead of an error.
func (s *PresenceService) BatchLookup(ctx context.Context, userIds []int64) ([]*entity.PresenceInfo, error) {
	if len(userIds) == 0 {
		return []*entity.PresenceInfo{}, nil
	}

	lastSeen, err := s.users.GetLastSeenByIds(ctx, userIds)
	if err != nil {
		log.CtxError(ctx, "presence lookup failed: %v", err)
		return nil, errcode.ErrServer
	}

	result := make([]*entity.PresenceInfo, 0, len(userIds))
	for _, id := range userIds {
		result = append(result, &entity.PresenceInfo{
			UserId:   id,
			Status:   constant.PresenceOffline,
			LastSeen: lastSeen[id],
		})
	}
	return result, nil
}

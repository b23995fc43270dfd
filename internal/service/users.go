package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samandr77/microservices/condo/internal/entity"
)

func (s *Service) Roster(ctx context.Context, sess entity.Session) ([]entity.User, error) {
	if err := authorize(sess, entity.PermissionViewRoster); err != nil {
		return nil, err
	}

	users, err := s.backend.Users(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrRosterFetch, err)
	}

	return users, nil
}

// UpdateProfile edits name, contact and unit fields. Users may edit their own
// record; editing anyone else needs manage_users.
func (s *Service) UpdateProfile(ctx context.Context, sess entity.Session, id int64, upd entity.ProfileUpdate) (entity.User, error) {
	permission := entity.PermissionManageUsers
	if id == sess.UserID {
		permission = entity.PermissionViewOwnRecord
	}

	if err := authorize(sess, permission); err != nil {
		return entity.User{}, err
	}

	if err := ValidateProfileUpdate(&upd); err != nil {
		return entity.User{}, err
	}

	user, err := s.backend.PatchUser(ctx, sess, id, upd)
	if err != nil {
		return entity.User{}, fmt.Errorf("update profile of user %d: %w", id, err)
	}

	slog.InfoContext(ctx, "profile updated", "target", id)

	return user, nil
}

// SetActive activates or deactivates a user. Records are never deleted.
func (s *Service) SetActive(ctx context.Context, sess entity.Session, id int64, active bool) (entity.User, error) {
	if err := authorize(sess, entity.PermissionManageUsers); err != nil {
		return entity.User{}, err
	}

	if id == sess.UserID && !active {
		return entity.User{}, fmt.Errorf("%w: no puede desactivar su propia cuenta", entity.ErrInvalidArgument)
	}

	user, err := s.backend.PatchUser(ctx, sess, id, entity.ProfileUpdate{Active: &active})
	if err != nil {
		return entity.User{}, fmt.Errorf("set active=%t for user %d: %w", active, id, err)
	}

	if !active {
		s.sessions.Forget(id)
	}

	slog.InfoContext(ctx, "user status changed", "target", id, "active", active)

	return user, nil
}

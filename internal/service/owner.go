package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samandr77/microservices/condo/internal/entity"
)

// ReassignOwner moves the owner role to targetID: the current holder is
// demoted to tenant first, then the target is promoted. The two PATCH calls
// are sequential and not transactional; the roster is always re-fetched
// after any PATCH was attempted.
func (s *Service) ReassignOwner(ctx context.Context, sess entity.Session, targetID int64) (entity.OwnerReassignment, error) {
	if err := authorize(sess, entity.PermissionManageRoles); err != nil {
		return entity.OwnerReassignment{}, err
	}

	roster, err := s.backend.Users(ctx, sess)
	if err != nil {
		return entity.OwnerReassignment{}, fmt.Errorf("%w: %w", entity.ErrRosterFetch, err)
	}

	target, ok := entity.FindUser(roster, targetID)
	if !ok {
		return entity.OwnerReassignment{}, fmt.Errorf("%w: user %d is not in the roster", entity.ErrNotFound, targetID)
	}

	owners := entity.FindOwners(roster)
	if len(owners) > 1 {
		ids := make([]int64, 0, len(owners))
		for _, o := range owners {
			ids = append(ids, o.ID)
		}

		slog.WarnContext(ctx, "roster holds more than one owner", "owner_ids", ids)

		return entity.OwnerReassignment{}, fmt.Errorf("%w: %v", entity.ErrMultipleOwners, ids)
	}

	res := entity.OwnerReassignment{TargetID: targetID, Roster: roster}

	if target.IsOwner() {
		res.NoOp = true
		return res, nil
	}

	var partial error

	if len(owners) == 1 {
		prev := owners[0]
		res.PreviousHolder = &prev

		_, err = s.backend.PatchUser(ctx, sess, prev.ID, entity.ProfileUpdate{Roles: entity.RoleSet{entity.RoleTenant}})
		if err != nil {
			partial = fmt.Errorf("%w: demote user %d: %w", entity.ErrPartialFailure, prev.ID, err)

			slog.ErrorContext(ctx, "owner demotion failed",
				"previous_holder", prev.ID, "target", targetID, "policy", s.demotionPolicy, "error", err)

			res.Warnings = append(res.Warnings, entity.ErrMsgPartialFailure)

			if s.demotionPolicy != entity.DemotionFailOpen {
				res.Roster = s.refreshRoster(ctx, sess, &res)
				s.alert(ctx, sess, res, partial)

				return res, partial
			}
		} else {
			res.Demoted = true
			s.sessions.SetRole(prev.ID, entity.RoleTenant, s.now())
		}
	}

	_, err = s.backend.PatchUser(ctx, sess, targetID, entity.ProfileUpdate{Roles: entity.RoleSet{entity.RoleOwner}})
	if err != nil {
		slog.ErrorContext(ctx, "owner promotion failed", "target", targetID, "error", err)

		res.Roster = s.refreshRoster(ctx, sess, &res)

		promoteErr := fmt.Errorf("%w: promote user %d: %w", entity.ErrPromotionFailed, targetID, err)
		if partial != nil {
			s.alert(ctx, sess, res, partial)
			return res, errors.Join(promoteErr, partial)
		}

		if res.Demoted {
			s.alert(ctx, sess, res, promoteErr)
		}

		return res, promoteErr
	}

	res.Promoted = true

	s.sessions.SetRole(targetID, entity.RoleOwner, s.now())

	if targetID == sess.UserID {
		patched := s.sessions.Apply(sess)
		res.SessionPatched = true
		res.Session = &patched
	}

	res.Roster = s.refreshRoster(ctx, sess, &res)

	newOwner := target
	newOwner.Roles = entity.RoleSet{entity.RoleOwner}

	s.events.OwnerReassigned(ctx, entity.OwnerChange{
		NewOwner:       newOwner,
		PreviousHolder: res.PreviousHolder,
		ChangedBy:      sess.UserID,
		ChangedAt:      s.now(),
	})

	if partial != nil {
		s.alert(ctx, sess, res, partial)
		return res, partial
	}

	slog.InfoContext(ctx, "owner reassigned", "target", targetID, "demoted", res.Demoted)

	return res, nil
}

// refreshRoster re-fetches the roster. On failure the roster fetched before
// the PATCH calls is kept and a warning is recorded.
func (s *Service) refreshRoster(ctx context.Context, sess entity.Session, res *entity.OwnerReassignment) []entity.User {
	roster, err := s.backend.Users(ctx, sess)
	if err != nil {
		slog.WarnContext(ctx, "roster refresh failed", "error", err)
		res.Warnings = append(res.Warnings, entity.ErrMsgRosterFetch)

		return res.Roster
	}

	return roster
}

func (s *Service) alert(ctx context.Context, sess entity.Session, res entity.OwnerReassignment, cause error) {
	s.events.OwnerPartialFailure(ctx, entity.OwnerAlert{
		TargetID:       res.TargetID,
		PreviousHolder: res.PreviousHolder,
		Reason:         cause.Error(),
		ChangedBy:      sess.UserID,
		At:             s.now(),
	})
}

// ChangeRole assigns a single role to a user. The owner role goes through
// ReassignOwner so that the single-owner rule holds.
func (s *Service) ChangeRole(ctx context.Context, sess entity.Session, targetID int64, role entity.Role) (entity.RoleChange, error) {
	if !role.IsValid() {
		return entity.RoleChange{}, fmt.Errorf("%w: unknown role %d", entity.ErrInvalidArgument, role.ID())
	}

	change := entity.RoleChange{TargetID: targetID, Role: role}

	if role == entity.RoleOwner {
		res, err := s.ReassignOwner(ctx, sess, targetID)
		change.Owner = &res
		change.SessionPatched = res.SessionPatched

		return change, err
	}

	if err := authorize(sess, entity.PermissionManageRoles); err != nil {
		return entity.RoleChange{}, err
	}

	if targetID <= 0 {
		return entity.RoleChange{}, fmt.Errorf("%w: user id", entity.ErrInvalidArgument)
	}

	user, err := s.backend.PatchUser(ctx, sess, targetID, entity.ProfileUpdate{Roles: entity.RoleSet{role}})
	if err != nil {
		return entity.RoleChange{}, fmt.Errorf("change role of user %d: %w", targetID, err)
	}

	change.User = &user

	s.sessions.SetRole(targetID, role, s.now())
	change.SessionPatched = targetID == sess.UserID

	return change, nil
}

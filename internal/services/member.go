package services

import (
	"context"
	"errors"

	"github.com/memberdir/apiserver/config"
	"github.com/memberdir/apiserver/internal/audit"
	"github.com/memberdir/apiserver/internal/store"
	"github.com/memberdir/apiserver/types"
)

// MemberRepository defines persistence operations for members.
type MemberRepository interface {
	GetByID(ctx context.Context, memberID int) (types.Member, error)
	GetByName(ctx context.Context, name string) (types.Member, error)
	Insert(ctx context.Context, member types.Member) (types.Member, error)
	Update(ctx context.Context, member types.Member) (types.Member, error)
	DeleteByID(ctx context.Context, memberID int) error
	List(ctx context.Context) ([]types.Member, error)
}

// MemberService encapsulates member use-cases, including the
// duplicate-name policy applied on create.
type MemberService struct {
	repo            MemberRepository
	publisher       audit.Publisher
	duplicatePolicy string
}

func NewMemberService(repo MemberRepository, publisher audit.Publisher, duplicatePolicy string) *MemberService {
	if publisher == nil {
		publisher = audit.Nop{}
	}
	return &MemberService{
		repo:            repo,
		publisher:       publisher,
		duplicatePolicy: duplicatePolicy,
	}
}

func (s *MemberService) Get(ctx context.Context, memberID int) (types.Member, error) {
	return s.repo.GetByID(ctx, memberID)
}

// Create adds a member, checking the name for uniqueness first. The
// check and the insert are two statements, so two concurrent creates of
// the same name can race past the check; the unique index on name turns
// that into an insert error rather than a silent duplicate. Under the
// upsert policy an existing name is updated in place instead of rejected.
func (s *MemberService) Create(ctx context.Context, member types.Member, actor string) (types.Member, error) {
	_, err := s.repo.GetByName(ctx, member.Name)
	switch {
	case err == nil:
		if s.duplicatePolicy == config.DuplicateUpsert {
			updated, err := s.repo.Update(ctx, member)
			if err != nil {
				return types.Member{}, err
			}
			s.publisher.MemberChanged(ctx, types.EventMemberUpdated, updated, actor)
			return updated, nil
		}
		return types.Member{}, store.ErrDuplicateName
	case errors.Is(err, store.ErrNotFound):
		created, err := s.repo.Insert(ctx, member)
		if err != nil {
			return types.Member{}, err
		}
		s.publisher.MemberChanged(ctx, types.EventMemberCreated, created, actor)
		return created, nil
	default:
		return types.Member{}, err
	}
}

// Delete removes the member with the given ID, distinguishing a missing
// row from a successful delete.
func (s *MemberService) Delete(ctx context.Context, memberID int, actor string) error {
	member, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, memberID); err != nil {
		return err
	}
	s.publisher.MemberChanged(ctx, types.EventMemberDeleted, member, actor)
	return nil
}

// List returns every member. Backs the export command only.
func (s *MemberService) List(ctx context.Context) ([]types.Member, error) {
	return s.repo.List(ctx)
}

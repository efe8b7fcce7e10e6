package services

import (
	"context"
	"testing"

	"github.com/memberdir/apiserver/config"
	"github.com/memberdir/apiserver/internal/store"
	"github.com/memberdir/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemberRepo struct {
	nextID  int
	byID    map[int]types.Member
	updates int
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{nextID: 1, byID: map[int]types.Member{}}
}

func (r *fakeMemberRepo) GetByID(_ context.Context, memberID int) (types.Member, error) {
	member, ok := r.byID[memberID]
	if !ok {
		return types.Member{}, store.ErrNotFound
	}
	return member, nil
}

func (r *fakeMemberRepo) GetByName(_ context.Context, name string) (types.Member, error) {
	for _, member := range r.byID {
		if member.Name == name {
			return member, nil
		}
	}
	return types.Member{}, store.ErrNotFound
}

func (r *fakeMemberRepo) Insert(_ context.Context, member types.Member) (types.Member, error) {
	member.MemberID = r.nextID
	r.nextID++
	r.byID[member.MemberID] = member
	return member, nil
}

func (r *fakeMemberRepo) Update(_ context.Context, member types.Member) (types.Member, error) {
	r.updates++
	for id, existing := range r.byID {
		if existing.Name == member.Name {
			member.MemberID = id
			r.byID[id] = member
			return member, nil
		}
	}
	return types.Member{}, store.ErrNotFound
}

func (r *fakeMemberRepo) DeleteByID(_ context.Context, memberID int) error {
	if _, ok := r.byID[memberID]; !ok {
		return store.ErrNotFound
	}
	delete(r.byID, memberID)
	return nil
}

func (r *fakeMemberRepo) List(_ context.Context) ([]types.Member, error) {
	members := make([]types.Member, 0, len(r.byID))
	for _, member := range r.byID {
		members = append(members, member)
	}
	return members, nil
}

type recordingPublisher struct {
	kinds []string
}

func (p *recordingPublisher) MemberChanged(_ context.Context, kind string, _ types.Member, _ string) {
	p.kinds = append(p.kinds, kind)
}

func TestMemberServiceCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	publisher := &recordingPublisher{}
	service := NewMemberService(newFakeMemberRepo(), publisher, config.DuplicateReject)

	created, err := service.Create(ctx, types.Member{Name: "foobar", Email: "foo@bar.baz", Phone: "8001234567"}, "admin_user")
	require.NoError(t, err)
	assert.Equal(t, 1, created.MemberID)
	assert.Equal(t, []string{types.EventMemberCreated}, publisher.kinds)
}

func TestMemberServiceCreateRejectsDuplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeMemberRepo()
	service := NewMemberService(repo, nil, config.DuplicateReject)

	_, err := service.Create(ctx, types.Member{Name: "foobar", Email: "foo@bar.baz", Phone: "8001234567"}, "admin_user")
	require.NoError(t, err)

	_, err = service.Create(ctx, types.Member{Name: "foobar", Email: "other@bar.baz", Phone: "8009994567"}, "admin_user")
	assert.ErrorIs(t, err, store.ErrDuplicateName)
	assert.Zero(t, repo.updates)
}

func TestMemberServiceCreateUpsertsDuplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeMemberRepo()
	publisher := &recordingPublisher{}
	service := NewMemberService(repo, publisher, config.DuplicateUpsert)

	first, err := service.Create(ctx, types.Member{Name: "foobar", Email: "foo@bar.baz", Phone: "8001234567"}, "admin_user")
	require.NoError(t, err)

	second, err := service.Create(ctx, types.Member{Name: "foobar", Email: "new@bar.baz", Phone: "8007654321"}, "admin_user")
	require.NoError(t, err)
	assert.Equal(t, first.MemberID, second.MemberID)
	assert.Equal(t, 1, repo.updates)
	assert.Equal(t, []string{types.EventMemberCreated, types.EventMemberUpdated}, publisher.kinds)

	got, err := service.Get(ctx, first.MemberID)
	require.NoError(t, err)
	assert.Equal(t, "new@bar.baz", got.Email)
}

func TestMemberServiceDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	publisher := &recordingPublisher{}
	service := NewMemberService(newFakeMemberRepo(), publisher, config.DuplicateReject)

	created, err := service.Create(ctx, types.Member{Name: "foobar", Email: "foo@bar.baz", Phone: "8001234567"}, "admin_user")
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.MemberID, "admin_user"))
	assert.ErrorIs(t, service.Delete(ctx, created.MemberID, "admin_user"), store.ErrNotFound)
	assert.Equal(t, []string{types.EventMemberCreated, types.EventMemberDeleted}, publisher.kinds)
}

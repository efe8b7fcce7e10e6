package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/memberdir/apiserver/types"
)

// MemberRepository handles persistence for members.
type MemberRepository struct {
	db     *sql.DB
	driver string
}

func NewMemberRepository(db *sql.DB, driver string) *MemberRepository {
	return &MemberRepository{db: db, driver: driver}
}

func (r *MemberRepository) GetByID(ctx context.Context, memberID int) (types.Member, error) {
	query := rebind(r.driver, `
		SELECT member_id, name, email, phone
		FROM members
		WHERE member_id = $1`)
	var member types.Member
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(
		&member.MemberID,
		&member.Name,
		&member.Email,
		&member.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Member{}, ErrNotFound
		}
		return types.Member{}, err
	}
	return member, nil
}

func (r *MemberRepository) GetByName(ctx context.Context, name string) (types.Member, error) {
	query := rebind(r.driver, `
		SELECT member_id, name, email, phone
		FROM members
		WHERE name = $1`)
	var member types.Member
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&member.MemberID,
		&member.Name,
		&member.Email,
		&member.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Member{}, ErrNotFound
		}
		return types.Member{}, err
	}
	return member, nil
}

// Insert persists a new member and assigns its member_id. The unique index
// on name is the last line of defense against the check-then-act race in
// the service layer.
func (r *MemberRepository) Insert(ctx context.Context, member types.Member) (types.Member, error) {
	query := rebind(r.driver, `
		INSERT INTO members (name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING member_id`)
	if err := r.db.QueryRowContext(
		ctx,
		query,
		member.Name,
		member.Email,
		member.Phone,
	).Scan(&member.MemberID); err != nil {
		return types.Member{}, err
	}
	return member, nil
}

// Update rewrites the contact fields of the member with the given name.
// Only used when the duplicate policy is upsert.
func (r *MemberRepository) Update(ctx context.Context, member types.Member) (types.Member, error) {
	query := rebind(r.driver, `
		UPDATE members
		SET email = $1,
			phone = $2
		WHERE name = $3
		RETURNING member_id`)
	if err := r.db.QueryRowContext(
		ctx,
		query,
		member.Email,
		member.Phone,
		member.Name,
	).Scan(&member.MemberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Member{}, ErrNotFound
		}
		return types.Member{}, err
	}
	return member, nil
}

func (r *MemberRepository) DeleteByID(ctx context.Context, memberID int) error {
	query := rebind(r.driver, `DELETE FROM members WHERE member_id = $1`)
	result, err := r.db.ExecContext(ctx, query, memberID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every member ordered by member_id. Used by the export
// command, not by any API endpoint.
func (r *MemberRepository) List(ctx context.Context) ([]types.Member, error) {
	query := `
		SELECT member_id, name, email, phone
		FROM members
		ORDER BY member_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []types.Member
	for rows.Next() {
		var member types.Member
		if err := rows.Scan(&member.MemberID, &member.Name, &member.Email, &member.Phone); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

package rotation_repo

import (
	"context"
	"errors"
	"time"

	"prize_wheel/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table     = "wheel_rotation"
	wheelID   = "wheel_id"
	userID    = "user_id"
	rotation  = "rotation"
	updatedAt = "updated_at"
)

type repo struct {
	dbc *pgxpool.Pool
}

func NewRotationRepository(dbc *pgxpool.Pool) repository.RotationRepository {
	return &repo{
		dbc: dbc,
	}
}

// upsertQuery чужую строку с тем же wheel_id не перезаписывает
func upsertQuery(user int, wheel string, rot float64, at time.Time) sq.InsertBuilder {
	return sq.Insert(table).
		Columns(wheelID, userID, rotation, updatedAt).
		Values(wheel, user, rot, at).
		Suffix("ON CONFLICT (" + wheelID + ") DO UPDATE SET " +
			rotation + " = EXCLUDED." + rotation + ", " +
			updatedAt + " = EXCLUDED." + updatedAt +
			" WHERE " + table + "." + userID + " = EXCLUDED." + userID).
		PlaceholderFormat(sq.Dollar)
}

func getQuery(user int, wheel string) sq.SelectBuilder {
	return sq.Select(rotation).
		From(table).
		Where(sq.Eq{wheelID: wheel}).
		Where(sq.Eq{userID: user}).
		PlaceholderFormat(sq.Dollar)
}

func deleteQuery(user int, wheel string) sq.DeleteBuilder {
	return sq.Delete(table).
		Where(sq.Eq{wheelID: wheel}).
		Where(sq.Eq{userID: user}).
		PlaceholderFormat(sq.Dollar)
}

// Owner - владелец сохраненного колеса. found = false, если угол не сохранялся
func (r *repo) Owner(ctx context.Context, wheel string) (int, bool, error) {
	sqlStr, args, err := sq.Select(userID).
		From(table).
		Where(sq.Eq{wheelID: wheel}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, false, err
	}

	var owner int
	err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return owner, true, nil
}

// Get - последний сохраненный угол колеса пользователя
func (r *repo) Get(ctx context.Context, user int, wheel string) (float64, bool, error) {
	sqlStr, args, err := getQuery(user, wheel).ToSql()
	if err != nil {
		return 0, false, err
	}

	var rot float64
	err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&rot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return rot, true, nil
}

// Upsert - сохранение угла после спина или сброса
func (r *repo) Upsert(ctx context.Context, user int, wheel string, rot float64) error {
	sqlStr, args, err := upsertQuery(user, wheel, rot, time.Now().UTC()).ToSql()
	if err != nil {
		return err
	}

	_, err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

func (r *repo) Delete(ctx context.Context, user int, wheel string) error {
	sqlStr, args, err := deleteQuery(user, wheel).ToSql()
	if err != nil {
		return err
	}

	_, err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

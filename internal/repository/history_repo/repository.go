package history_repo

import (
	"context"
	"time"

	"prize_wheel/internal/model"
	"prize_wheel/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table          = "spin_history"
	idColumn       = "id"
	wheelID        = "wheel_id"
	userID         = "user_id"
	requestedIndex = "requested_index"
	resolvedIndex  = "resolved_index"
	label          = "label"
	finalRotation  = "final_rotation"
	mismatch       = "mismatch"
	createdAt      = "created_at"
)

type repo struct {
	dbc *pgxpool.Pool
}

func NewHistoryRepository(dbc *pgxpool.Pool) repository.HistoryRepository {
	return &repo{
		dbc: dbc,
	}
}

func insertQuery(rec *model.SpinRecord) sq.InsertBuilder {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return sq.Insert(table).
		Columns(wheelID, userID, requestedIndex, resolvedIndex, label, finalRotation, mismatch, createdAt).
		Values(rec.WheelID, rec.UserID, rec.RequestedIndex, rec.ResolvedIndex, rec.Label, rec.FinalRotation, rec.Mismatch, created).
		Suffix("RETURNING " + idColumn).
		PlaceholderFormat(sq.Dollar)
}

func listQuery(user int, wheel string, limit int) sq.SelectBuilder {
	q := sq.Select(idColumn, wheelID, userID, requestedIndex, resolvedIndex, label, finalRotation, mismatch, createdAt).
		From(table).
		Where(sq.Eq{wheelID: wheel}).
		Where(sq.Eq{userID: user}).
		OrderBy(createdAt+" DESC", idColumn+" DESC").
		PlaceholderFormat(sq.Dollar)
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q
}

// Insert - запись результата спина. Работает внутри транзакции, если она есть в контексте
func (r *repo) Insert(ctx context.Context, rec *model.SpinRecord) (int64, error) {
	sqlStr, args, err := insertQuery(rec).ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List - последние спины колеса пользователя, свежие первыми
func (r *repo) List(ctx context.Context, user int, wheel string, limit int) ([]model.SpinRecord, error) {
	sqlStr, args, err := listQuery(user, wheel, limit).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]model.SpinRecord, 0, max(limit, 0))
	for rows.Next() {
		var rec model.SpinRecord
		err = rows.Scan(&rec.ID, &rec.WheelID, &rec.UserID, &rec.RequestedIndex, &rec.ResolvedIndex,
			&rec.Label, &rec.FinalRotation, &rec.Mismatch, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func deleteQuery(user int, wheel string) sq.DeleteBuilder {
	return sq.Delete(table).
		Where(sq.Eq{wheelID: wheel}).
		Where(sq.Eq{userID: user}).
		PlaceholderFormat(sq.Dollar)
}

// DeleteByWheel - удаление истории вместе с колесом, только строки владельца
func (r *repo) DeleteByWheel(ctx context.Context, user int, wheel string) error {
	sqlStr, args, err := deleteQuery(user, wheel).ToSql()
	if err != nil {
		return err
	}

	_, err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

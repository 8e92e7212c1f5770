package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/task/model"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	gRepo "innkeep/shared/repository"

	"github.com/jmoiron/sqlx"
)

// Every transition is a single UPDATE guarded by the source status. Zero affected rows means the
// task is gone, in another state, or was taken by someone else first.
const (
	claimQuery = `UPDATE tasks SET status = :to_status, housekeeper_id = :housekeeper_id, modified_at = :modified_at, modified_by = :modified_by ` +
		`WHERE id = :id AND status = :from_status AND housekeeper_id IS NULL`
	completeQuery = `UPDATE tasks SET status = :to_status, image_url = :image_url, completed_at = :completed_at, modified_at = :modified_at, modified_by = :modified_by ` +
		`WHERE id = :id AND status = :from_status AND housekeeper_id = :housekeeper_id`
	verifyQuery = `UPDATE tasks SET status = :to_status, modified_at = :modified_at, modified_by = :modified_by ` +
		`WHERE id = :id AND status = :from_status`
	rejectQuery = `UPDATE tasks SET status = :to_status, housekeeper_id = NULL, image_url = NULL, completed_at = NULL, modified_at = :modified_at, modified_by = :modified_by ` +
		`WHERE id = :id AND status = :from_status`
)

type Task interface {
	Insert(ctx context.Context, model model.Task) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Task) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Task, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Task, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	Claim(ctx context.Context, id, housekeeperID string, at time.Time) (int64, error)
	Complete(ctx context.Context, id, housekeeperID, imageURL string, at time.Time) (int64, error)
	VerifyTx(ctx context.Context, sqltx *sqlx.Tx, id, user string, at time.Time) (int64, error)
	Reject(ctx context.Context, id, user string, at time.Time) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Task]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Task {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Task](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Claim(ctx context.Context, id, housekeeperID string, at time.Time) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.Claim")
	defer scope.End()

	args := transitionArgs(model.ActionClaim, id, housekeeperID, at)
	args[model.FieldHousekeeperID] = housekeeperID

	return r.Exec(ctx, claimQuery, args) //nolint:wrapcheck
}

func (r *repositoryImpl) Complete(ctx context.Context, id, housekeeperID, imageURL string, at time.Time) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.Complete")
	defer scope.End()

	args := transitionArgs(model.ActionComplete, id, housekeeperID, at)
	args[model.FieldHousekeeperID] = housekeeperID
	args[model.FieldImageURL] = imageURL
	args[model.FieldCompletedAt] = at

	return r.Exec(ctx, completeQuery, args) //nolint:wrapcheck
}

func (r *repositoryImpl) VerifyTx(ctx context.Context, sqltx *sqlx.Tx, id, user string, at time.Time) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.VerifyTx")
	defer scope.End()

	return r.ExecTx(ctx, sqltx, verifyQuery, transitionArgs(model.ActionVerify, id, user, at)) //nolint:wrapcheck
}

func (r *repositoryImpl) Reject(ctx context.Context, id, user string, at time.Time) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".task.Reject")
	defer scope.End()

	return r.Exec(ctx, rejectQuery, transitionArgs(model.ActionReject, id, user, at)) //nolint:wrapcheck
}

func transitionArgs(action, id, user string, at time.Time) map[string]any {
	return map[string]any{
		model.FieldID:            id,
		"from_status":            model.From(action),
		"to_status":              model.To(action),
		constant.FieldModifiedAt: at,
		constant.FieldModifiedBy: user,
	}
}

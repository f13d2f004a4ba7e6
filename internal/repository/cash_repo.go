package repository

import (
	"context"
	"time"

	"doutoragenda/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CashRepository interface {
	// CreateSession persists a new session together with its synthetic opening
	// operation in one transaction.
	CreateSession(ctx context.Context, s *model.DailyCash, opening *model.CashOperation) error
	FindOpenSession(ctx context.Context, clinicID, userID uuid.UUID, day time.Time) (*model.DailyCash, error)
	FindSessionByID(ctx context.Context, id uuid.UUID) (*model.DailyCash, error)
	FindOperationByID(ctx context.Context, id uuid.UUID) (*model.CashOperation, error)
	ListOperations(ctx context.Context, dailyCashID uuid.UUID) ([]model.CashOperation, error)
	ListSessions(ctx context.Context, clinicID uuid.UUID, page, limit int) ([]model.DailyCash, int64, error)

	// MutateSession runs fn inside one transaction holding a FOR UPDATE lock on
	// the session row. Concurrent mutations against the same session serialize
	// here, so each recomputation reads a coherent snapshot of the operation
	// set. Either everything fn does commits, or nothing does.
	MutateSession(ctx context.Context, id uuid.UUID, fn func(tx *gorm.DB, s *model.DailyCash) error) error

	CreateOperationTx(tx *gorm.DB, op *model.CashOperation) error
	DeleteOperationTx(tx *gorm.DB, id uuid.UUID) error
	ListOperationsTx(tx *gorm.DB, dailyCashID uuid.UUID) ([]model.CashOperation, error)
	SaveSessionTx(tx *gorm.DB, s *model.DailyCash) error
}

type cashRepo struct{ db *gorm.DB }

func NewCashRepository(db *gorm.DB) CashRepository { return &cashRepo{db: db} }

func (r *cashRepo) CreateSession(ctx context.Context, s *model.DailyCash, opening *model.CashOperation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		opening.DailyCashID = s.ID
		return tx.Create(opening).Error
	})
}

func (r *cashRepo) FindOpenSession(ctx context.Context, clinicID, userID uuid.UUID, day time.Time) (*model.DailyCash, error) {
	var s model.DailyCash
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND user_id = ? AND date = ? AND status = 'open'",
			clinicID, userID, day.Format("2006-01-02")).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cashRepo) FindSessionByID(ctx context.Context, id uuid.UUID) (*model.DailyCash, error) {
	var s model.DailyCash
	err := r.db.WithContext(ctx).
		Preload("Operations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cashRepo) FindOperationByID(ctx context.Context, id uuid.UUID) (*model.CashOperation, error) {
	var op model.CashOperation
	err := r.db.WithContext(ctx).First(&op, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *cashRepo) ListOperations(ctx context.Context, dailyCashID uuid.UUID) ([]model.CashOperation, error) {
	var ops []model.CashOperation
	err := r.db.WithContext(ctx).
		Where("daily_cash_id = ?", dailyCashID).
		Order("created_at ASC").
		Find(&ops).Error
	return ops, err
}

func (r *cashRepo) ListSessions(ctx context.Context, clinicID uuid.UUID, page, limit int) ([]model.DailyCash, int64, error) {
	var sessions []model.DailyCash
	var total int64

	q := r.db.WithContext(ctx).Model(&model.DailyCash{}).Where("clinic_id = ?", clinicID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("date DESC, opened_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sessions).Error
	return sessions, total, err
}

func (r *cashRepo) MutateSession(ctx context.Context, id uuid.UUID, fn func(tx *gorm.DB, s *model.DailyCash) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s model.DailyCash
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&s, "id = ?", id).Error; err != nil {
			return err
		}
		return fn(tx, &s)
	})
}

func (r *cashRepo) CreateOperationTx(tx *gorm.DB, op *model.CashOperation) error {
	return tx.Create(op).Error
}

func (r *cashRepo) DeleteOperationTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.CashOperation{}, "id = ?", id).Error
}

func (r *cashRepo) ListOperationsTx(tx *gorm.DB, dailyCashID uuid.UUID) ([]model.CashOperation, error) {
	var ops []model.CashOperation
	err := tx.Where("daily_cash_id = ?", dailyCashID).
		Order("created_at ASC").
		Find(&ops).Error
	return ops, err
}

func (r *cashRepo) SaveSessionTx(tx *gorm.DB, s *model.DailyCash) error {
	return tx.Save(s).Error
}

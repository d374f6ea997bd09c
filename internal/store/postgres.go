package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"main/internal/errors"
	"main/internal/model"
	"main/pkg/exception"
)

const defaultStorageTimeout = 5 * time.Second

// Postgres persists the ledger through gorm. All write paths run inside a
// transaction; every call carries a bounded timeout so a wedged pool fails
// fast with ErrStorage instead of blocking the caller.
type Postgres struct {
	db      *gorm.DB
	seed    decimal.Decimal
	timeout time.Duration
}

func NewPostgres(db *gorm.DB, seedBalance decimal.Decimal, timeout time.Duration) (*Postgres, error) {
	if timeout <= 0 {
		timeout = defaultStorageTimeout
	}

	if err := db.AutoMigrate(&model.Account{}, &model.Holding{}, &model.OrderRecord{}); err != nil {
		return nil, errors.Wrap(err, "migrate ledger schema")
	}

	return &Postgres{db: db, seed: seedBalance, timeout: timeout}, nil
}

func (s *Postgres) GetOrCreateAccount(ctx context.Context, owner string) (model.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// The unique constraint on owner resolves concurrent first access: the
	// losing insert is a no-op and the re-read returns the winner's row.
	seeded := model.Account{Owner: owner, Balance: s.seed}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "owner"}}, DoNothing: true}).
		Create(&seeded).Error; err != nil {
		return model.Account{}, s.fail("create account", err)
	}

	var account model.Account
	if err := s.db.WithContext(ctx).Where("owner = ?", owner).Take(&account).Error; err != nil {
		return model.Account{}, s.fail("load account", err)
	}
	return account, nil
}

func (s *Postgres) GetHolding(ctx context.Context, owner, symbol string) (model.Holding, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var holding model.Holding
	err := s.db.WithContext(ctx).
		Where("owner = ? AND symbol = ?", owner, symbol).
		Take(&holding).Error
	switch {
	case err == nil:
		return holding, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Holding{}, false, nil
	default:
		return model.Holding{}, false, s.fail("load holding", err)
	}
}

func (s *Postgres) ListHoldings(ctx context.Context, owner string, limit int) ([]model.Holding, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var holdings []model.Holding
	query := s.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("updated_at DESC, symbol ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&holdings).Error; err != nil {
		return nil, s.fail("list holdings", err)
	}
	return holdings, nil
}

func (s *Postgres) ListOrders(ctx context.Context, owner string, limit int) ([]model.OrderRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var records []model.OrderRecord
	query := s.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("timestamp DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, s.fail("list orders", err)
	}
	return records, nil
}

func (s *Postgres) Commit(ctx context.Context, c Commit) (model.OrderRecord, error) {
	if !c.HoldingOp.IsAvailable() {
		return model.OrderRecord{}, errors.Wrapf(exception.ErrStorage, "holding op %d not available", c.HoldingOp)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	record := c.Order
	record.Timestamp = time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Account{}).
			Where("owner = ?", c.Owner).
			Update("balance", c.NewBalance)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("account row missing: " + c.Owner)
		}

		switch c.HoldingOp {
		case HoldingOpUpsert:
			holding := c.Holding
			// conflict must arbitrate on (owner, symbol), not the pk
			holding.ID = 0
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "owner"}, {Name: "symbol"}},
				DoUpdates: clause.AssignmentColumns([]string{"quantity", "avg_price", "updated_at"}),
			}).Create(&holding).Error; err != nil {
				return err
			}
		case HoldingOpDelete:
			if err := tx.
				Where("owner = ? AND symbol = ?", c.Holding.Owner, c.Holding.Symbol).
				Delete(&model.Holding{}).Error; err != nil {
				return err
			}
		}

		return tx.Create(&record).Error
	})
	if err != nil {
		return model.OrderRecord{}, s.fail("commit trade", err)
	}
	return record, nil
}

// fail logs the full cause internally and hands the caller an opaque
// ErrStorage with a reference id they can report.
func (s *Postgres) fail(op string, err error) error {
	ref := uuid.NewString()
	logs.Errorf("ledger storage: %s failed, ref: %s, err: %+v", op, ref, err)
	return errors.Wrapf(exception.ErrStorage, "%s (ref %s)", op, ref)
}

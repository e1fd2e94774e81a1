// Package adapters はstocksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"stock_valuation/internal/feature/stocks/domain"
	"stock_valuation/internal/feature/stocks/domain/entity"
	"stock_valuation/internal/feature/stocks/usecase"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のSQLSTATEです。
const pgUniqueViolation = "23505"

// stockGorm はStockRepositoryインターフェースのGORM実装です。
// SQLiteとPostgreSQLのどちらの接続でも動作します。
type stockGorm struct {
	db  *gorm.DB
	now func() time.Time
}

// stockGormがStockRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.StockRepository = (*stockGorm)(nil)

// NewStockRepository は指定されたgorm.DB接続でstockGormの新しいインスタンスを生成します。
func NewStockRepository(db *gorm.DB) *stockGorm {
	return &stockGorm{db: db, now: time.Now}
}

// Create はレコードを追加します。
// 同じシンボルのレコードが既に存在する場合、domain.ErrDuplicateSymbolを返します。
func (r *stockGorm) Create(ctx context.Context, s *entity.Stock) (*entity.Stock, error) {
	model := StockModelFromEntity(s)
	model.LastUpdated = r.now()

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateSymbol
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// FindByID はIDでレコードを取得します。
// 存在しない場合、domain.ErrNotFoundを返します。
func (r *stockGorm) FindByID(ctx context.Context, id int64) (*entity.Stock, error) {
	var model StockModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// FindBySymbol はシンボルでレコードを取得します。
// シンボルは保存時と同じく正規化してから比較します。
func (r *stockGorm) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var model StockModel
	if err := r.db.WithContext(ctx).Where("symbol = ?", entity.NormalizeSymbol(symbol)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// List はすべてのレコードをシンボルの昇順で返します。
func (r *stockGorm) List(ctx context.Context) ([]entity.Stock, error) {
	var models []StockModel
	if err := r.db.WithContext(ctx).Order("symbol ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Stock, 0, len(models))
	for i := range models {
		out = append(out, *models[i].ToEntity())
	}
	return out, nil
}

// Update はパッチで指定されたフィールドとlast_updatedを1トランザクションで更新します。
// 空のパッチの場合は何も書き込まず、現在のレコードをそのまま返します。
// シンボルが他のレコードと衝突する場合、何も適用せずdomain.ErrDuplicateSymbolを返します。
func (r *stockGorm) Update(ctx context.Context, id int64, patch entity.StockPatch) (*entity.Stock, error) {
	var updated StockModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&updated).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if patch.IsEmpty() {
			return nil
		}

		cols := patchColumns(patch)
		if sym, ok := cols["symbol"]; ok {
			var count int64
			if err := tx.Model(&StockModel{}).
				Where("symbol = ? AND id <> ?", sym, id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return domain.ErrDuplicateSymbol
			}
		}
		cols["last_updated"] = r.now()

		if err := tx.Model(&StockModel{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateSymbol
			}
			return err
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return updated.ToEntity(), nil
}

// Delete はレコードを完全に削除します。
// 存在しない場合、domain.ErrNotFoundを返します。
func (r *stockGorm) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&StockModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// isUniqueViolation はドライバーのエラーが一意制約違反かどうかを判定します。
// TranslateErrorが有効な場合のgorm.ErrDuplicatedKeyと、各ドライバーの生のエラーの両方に対応します。
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return true
	}
	return false
}

package repository

import (
	"context"
	"errors"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InventoryRepository struct {
	db *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const inventoryColumns = `id, item_name, stock, item_value, weight, min_rank_level,
	target_market, mall_price, vip_price, vip_card_level, vip_card_hours, img_url`

func scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	var it domain.InventoryItem
	err := row.Scan(&it.ID, &it.ItemName, &it.Stock, &it.ItemValue, &it.Weight, &it.MinRankLevel,
		&it.TargetMarket, &it.MallPrice, &it.VIPPrice, &it.VIPCardLevel, &it.VIPCardHours, &it.ImgURL)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *InventoryRepository) GetByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	it, err := scanItem(r.db.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventory WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOutOfStock
	}
	return it, err
}

// возвращает позицию по имени (sku). Отсутствующая - pgx.ErrNoRows,
// вызывающий сам решает, что это значит
func (r *InventoryRepository) GetByName(ctx context.Context, name string) (*domain.InventoryItem, error) {
	return scanItem(r.db.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventory WHERE item_name = $1`, name))
}

// возвращает позиции рынка с остатком, доступные рангу игрока
func (r *InventoryRepository) ListAvailable(ctx context.Context, market domain.Market, rankLevel int) ([]domain.InventoryItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+inventoryColumns+`
		 FROM inventory
		 WHERE stock > 0
		   AND min_rank_level <= $1
		   AND (target_market = $2 OR target_market = $3)
		 ORDER BY id`,
		rankLevel, market, domain.MarketBoth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// Reserve атомарно списывает единицу остатка. Нулевой остаток - отказ,
// условие в самом UPDATE исключает гонку двух списаний.
func (r *InventoryRepository) ReserveTx(ctx context.Context, tx pgx.Tx, itemID int64) error {
	tag, err := tx.Exec(ctx,
		`UPDATE inventory SET stock = stock - 1 WHERE id = $1 AND stock > 0`, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOutOfStock
	}
	return nil
}

// текущий остаток позиции, для уведомлений об исчерпании
func (r *InventoryRepository) Stock(ctx context.Context, itemID int64) (int, error) {
	var stock int
	err := r.db.QueryRow(ctx, `SELECT stock FROM inventory WHERE id = $1`, itemID).Scan(&stock)
	return stock, err
}

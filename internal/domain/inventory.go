package domain

// Каналы размещения приза
type Market string

const (
	MarketWheel Market = "Wheel"
	MarketMall  Market = "Mall"
	MarketBoth  Market = "Both"
)

// InventoryItem - приз на складе с конечным остатком
type InventoryItem struct {
	ID           int64   `db:"id" json:"id"`
	ItemName     string  `db:"item_name" json:"item_name"`
	Stock        int     `db:"stock" json:"stock"`
	ItemValue    int64   `db:"item_value" json:"item_value"` // витринная цена, справочно
	Weight       float64 `db:"weight" json:"weight"`         // вес для взвешенного розыгрыша
	MinRankLevel int     `db:"min_rank_level" json:"min_rank_level"`
	TargetMarket Market  `db:"target_market" json:"target_market"`
	MallPrice    int64   `db:"mall_price" json:"mall_price"` // цена в XP
	VIPPrice     int64   `db:"vip_price" json:"vip_price"`   // цена в VP, 0 = не продаётся за VP
	VIPCardLevel int     `db:"vip_card_level" json:"vip_card_level"`
	VIPCardHours int     `db:"vip_card_hours" json:"vip_card_hours"`
	ImgURL       string  `db:"img_url" json:"img_url"`
}

// InMarket проверяет доступность приза в канале
func (i *InventoryItem) InMarket(m Market) bool {
	return i.TargetMarket == m || i.TargetMarket == MarketBoth
}

// IsVIPCard - приз открывает vip уровень при выдаче
func (i *InventoryItem) IsVIPCard() bool {
	return i.VIPCardLevel > 0 && i.VIPCardHours > 0
}

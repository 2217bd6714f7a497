package models

import "github.com/shopspring/decimal"

// Product is a menu item, owned by the menu subsystem and read-only to the
// pricing core. BasePrice is the contract: every product handed to the
// resolver must carry one.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
	Category  string          `json:"category"`
}

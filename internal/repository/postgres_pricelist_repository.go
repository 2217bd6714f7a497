package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/restobar/pricing-service/internal/models"
	"github.com/shopspring/decimal"
)

const priceListColumns = `id, code, name, description, start_time, end_time,
	days_of_week, priority, min_order_amount::text, requires_membership,
	location_id, is_active`

const overrideColumns = `price_list_id, product_id, price::text,
	adjustment_type, adjustment_value::text, is_active`

// PostgresPriceListRepository implements PriceListRepository over pgx.
type PostgresPriceListRepository struct {
	db *pgxpool.Pool
}

// NewPostgresPriceListRepository creates a Postgres-backed repository
func NewPostgresPriceListRepository(db *pgxpool.Pool) *PostgresPriceListRepository {
	return &PostgresPriceListRepository{db: db}
}

// GetAll returns all price lists ordered by id
func (r *PostgresPriceListRepository) GetAll(ctx context.Context) ([]models.PriceList, error) {
	rows, err := r.db.Query(ctx, `SELECT `+priceListColumns+` FROM price_lists ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []models.PriceList
	for rows.Next() {
		list, err := scanPriceList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *list)
	}
	return lists, rows.Err()
}

// GetByID returns a price list by its ID
func (r *PostgresPriceListRepository) GetByID(ctx context.Context, id int64) (*models.PriceList, error) {
	rows, err := r.db.Query(ctx, `SELECT `+priceListColumns+` FROM price_lists WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrPriceListNotFound
	}
	return scanPriceList(rows)
}

// Create stores a new price list, assigning its id
func (r *PostgresPriceListRepository) Create(ctx context.Context, list models.PriceList) (*models.PriceList, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO price_lists
			(code, name, description, start_time, end_time, days_of_week,
			 priority, min_order_amount, requires_membership, location_id, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id`,
		list.Code, list.Name, list.Description,
		timeOfDayArg(list.StartTime), timeOfDayArg(list.EndTime), daySetArg(list.DaysOfWeek),
		list.Priority, decimalArg(list.MinOrderAmount), list.RequiresMembership,
		list.LocationID, list.IsActive,
	).Scan(&list.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	return &list, nil
}

// Update replaces an existing price list
func (r *PostgresPriceListRepository) Update(ctx context.Context, list models.PriceList) (*models.PriceList, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE price_lists SET
			code=$2, name=$3, description=$4, start_time=$5, end_time=$6,
			days_of_week=$7, priority=$8, min_order_amount=$9,
			requires_membership=$10, location_id=$11, is_active=$12
		WHERE id=$1`,
		list.ID, list.Code, list.Name, list.Description,
		timeOfDayArg(list.StartTime), timeOfDayArg(list.EndTime), daySetArg(list.DaysOfWeek),
		list.Priority, decimalArg(list.MinOrderAmount), list.RequiresMembership,
		list.LocationID, list.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrPriceListNotFound
	}
	return &list, nil
}

// Delete removes a price list; its overrides cascade
func (r *PostgresPriceListRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM price_lists WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPriceListNotFound
	}
	return nil
}

// GetAllOverrides returns every stored override
func (r *PostgresPriceListRepository) GetAllOverrides(ctx context.Context) ([]models.ProductPriceOverride, error) {
	rows, err := r.db.Query(ctx, `SELECT `+overrideColumns+`
		FROM product_price_overrides ORDER BY price_list_id, product_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOverrides(rows)
}

// ListOverrides returns the overrides belonging to one price list
func (r *PostgresPriceListRepository) ListOverrides(ctx context.Context, priceListID int64) ([]models.ProductPriceOverride, error) {
	if _, err := r.GetByID(ctx, priceListID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT `+overrideColumns+`
		FROM product_price_overrides WHERE price_list_id=$1 ORDER BY product_id`, priceListID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOverrides(rows)
}

// UpsertOverride creates or replaces the override for one (list, product) pair
func (r *PostgresPriceListRepository) UpsertOverride(ctx context.Context, override models.ProductPriceOverride) (*models.ProductPriceOverride, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO product_price_overrides
			(price_list_id, product_id, price, adjustment_type, adjustment_value, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (price_list_id, product_id) DO UPDATE SET
			price=EXCLUDED.price,
			adjustment_type=EXCLUDED.adjustment_type,
			adjustment_value=EXCLUDED.adjustment_value,
			is_active=EXCLUDED.is_active`,
		override.PriceListID, override.ProductID,
		decimalArg(override.Price), adjustmentTypeArg(override.AdjustmentType),
		decimalArg(override.AdjustmentValue), override.IsActive,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrPriceListNotFound
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrPriceListNotFound
	}
	return &override, nil
}

// DeleteOverride removes the override for one (list, product) pair
func (r *PostgresPriceListRepository) DeleteOverride(ctx context.Context, priceListID, productID int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM product_price_overrides WHERE price_list_id=$1 AND product_id=$2`,
		priceListID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

func scanPriceList(rows pgx.Rows) (*models.PriceList, error) {
	var (
		list      models.PriceList
		startTime *string
		endTime   *string
		daySet    *int16
		minOrder  *string
	)
	if err := rows.Scan(
		&list.ID, &list.Code, &list.Name, &list.Description,
		&startTime, &endTime, &daySet, &list.Priority, &minOrder,
		&list.RequiresMembership, &list.LocationID, &list.IsActive,
	); err != nil {
		return nil, err
	}

	var err error
	if list.StartTime, err = parseTimeColumn(startTime); err != nil {
		return nil, err
	}
	if list.EndTime, err = parseTimeColumn(endTime); err != nil {
		return nil, err
	}
	if daySet != nil {
		list.DaysOfWeek = models.DaySet(*daySet)
	}
	if list.MinOrderAmount, err = parseDecimalColumn(minOrder); err != nil {
		return nil, err
	}
	return &list, nil
}

func collectOverrides(rows pgx.Rows) ([]models.ProductPriceOverride, error) {
	var overrides []models.ProductPriceOverride
	for rows.Next() {
		var (
			ov       models.ProductPriceOverride
			price    *string
			adjType  *string
			adjValue *string
		)
		if err := rows.Scan(&ov.PriceListID, &ov.ProductID, &price, &adjType, &adjValue, &ov.IsActive); err != nil {
			return nil, err
		}
		var err error
		if ov.Price, err = parseDecimalColumn(price); err != nil {
			return nil, err
		}
		if adjType != nil {
			ov.AdjustmentType = models.AdjustmentType(*adjType)
		}
		if ov.AdjustmentValue, err = parseDecimalColumn(adjValue); err != nil {
			return nil, err
		}
		overrides = append(overrides, ov)
	}
	return overrides, rows.Err()
}

func parseTimeColumn(s *string) (*models.TimeOfDay, error) {
	if s == nil {
		return nil, nil
	}
	t, err := models.ParseTimeOfDay(*s)
	if err != nil {
		return nil, fmt.Errorf("malformed time column: %w", err)
	}
	return &t, nil
}

func parseDecimalColumn(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("malformed numeric column: %w", err)
	}
	return &d, nil
}

func timeOfDayArg(t *models.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func daySetArg(s models.DaySet) *int16 {
	if s.IsZero() {
		return nil
	}
	v := int16(s)
	return &v
}

func decimalArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func adjustmentTypeArg(t models.AdjustmentType) *string {
	if t == "" {
		return nil
	}
	s := string(t)
	return &s
}

func isUniqueViolation(err error) bool {
	return pgErrCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pgErrCode(err) == "23503"
}

func pgErrCode(err error) string {
	type coder interface{ SQLState() string }
	var c coder
	if errors.As(err, &c) {
		return c.SQLState()
	}
	return ""
}

package stock

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LowStockThreshold is the level at or below which a product enters the
// low-stock alert list.
const LowStockThreshold = 5

type ChangeType string

const (
	ChangePurchase   ChangeType = "purchase"
	ChangeRestock    ChangeType = "restock"
	ChangeAdjustment ChangeType = "adjustment"
	ChangeReturn     ChangeType = "return"
	ChangeDamage     ChangeType = "damage"
)

var ErrProductNotFound = errors.New("product not found")

// Product is the catalog row as this subsystem sees it: only stock fields
// are ever written here.
type Product struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Stock   int     `json:"stock"`
	InStock bool    `json:"in_stock"`
}

// Entry is one append-only ledger row. The ledger is the audit source of
// truth; products.stock is a cached current value.
type Entry struct {
	ID             int64      `json:"id"`
	ProductID      string     `json:"product_id"`
	ProductName    string     `json:"product_name"`
	ChangeType     ChangeType `json:"change_type"`
	QuantityChange int        `json:"quantity_change"`
	PreviousStock  int        `json:"previous_stock"`
	NewStock       int        `json:"new_stock"`
	Reason         string     `json:"reason,omitempty"`
	OrderID        string     `json:"order_id,omitempty"`
	AdminID        string     `json:"admin_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ItemQuantity struct {
	ProductID string
	Quantity  int
}

type Shortage struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

type Availability struct {
	Valid       bool       `json:"valid"`
	Unavailable []Shortage `json:"unavailable,omitempty"`
}

type Adjustment struct {
	ProductID string
	Delta     int
	Change    ChangeType
	Reason    string
	OrderID   string
	AdminID   string
}

// applyDelta clamps at zero: stock never goes negative.
func applyDelta(prev, delta int) int {
	next := prev + delta
	if next < 0 {
		return 0
	}
	return next
}

// CheckAvailability compares requested quantities against the resolved
// products. A product missing from the map counts as zero available.
func CheckAvailability(products map[string]Product, items []ItemQuantity) Availability {
	out := Availability{Valid: true}
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			out.Valid = false
			out.Unavailable = append(out.Unavailable, Shortage{
				ProductID: it.ProductID, Name: it.ProductID, Requested: it.Quantity,
			})
			continue
		}
		if p.Stock < it.Quantity {
			out.Valid = false
			out.Unavailable = append(out.Unavailable, Shortage{
				ProductID: p.ID, Name: p.Name, Requested: it.Quantity, Available: p.Stock,
			})
		}
	}
	return out
}

// Ledger owns the products.stock counter and the stock_history table.
type Ledger struct {
	DB      *pgxpool.Pool
	Alerter *Alerter // optional
}

func (l *Ledger) ProductsByID(ctx context.Context, ids []string) (map[string]Product, error) {
	rows, err := l.DB.Query(ctx, `
		SELECT id, name, price, stock, in_stock FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]Product, len(ids))
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.InStock); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// ValidateAvailability is a read-only check; it reserves nothing. Stock is
// only decremented later, at confirmation.
func (l *Ledger) ValidateAvailability(ctx context.Context, items []ItemQuantity) (Availability, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := l.ProductsByID(ctx, ids)
	if err != nil {
		return Availability{}, err
	}
	return CheckAvailability(products, items), nil
}

// Adjust applies newStock = max(0, stock+delta) under a row lock, flips
// in_stock, and appends exactly one ledger entry. Low-stock alerting runs
// after commit and never fails the adjustment.
func (l *Ledger) Adjust(ctx context.Context, adj Adjustment) (int, error) {
	tx, err := l.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var name string
	var prev int
	err = tx.QueryRow(ctx, `SELECT name, stock FROM products WHERE id=$1 FOR UPDATE`, adj.ProductID).
		Scan(&name, &prev)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, err
	}

	next := applyDelta(prev, adj.Delta)
	if _, err := tx.Exec(ctx, `
		UPDATE products SET stock=$2, in_stock=$3, updated_at=now() WHERE id=$1`,
		adj.ProductID, next, next > 0); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO stock_history
			(product_id, product_name, change_type, quantity_change, previous_stock, new_stock, reason, order_id, admin_id)
		VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),NULLIF($8,''),NULLIF($9,''))`,
		adj.ProductID, name, adj.Change, adj.Delta, prev, next,
		adj.Reason, adj.OrderID, adj.AdminID); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	if next <= LowStockThreshold && l.Alerter != nil {
		l.Alerter.MaybeNotify(ctx, l)
	}
	return next, nil
}

// SetAbsolute computes the signed delta against the current counter and
// records it as an "adjustment" entry.
func (l *Ledger) SetAbsolute(ctx context.Context, productID string, newStock int, reason, adminID string) (int, error) {
	var current int
	err := l.DB.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1`, productID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, err
	}
	return l.Adjust(ctx, Adjustment{
		ProductID: productID,
		Delta:     newStock - current,
		Change:    ChangeAdjustment,
		Reason:    reason,
		AdminID:   adminID,
	})
}

// ListProducts returns the catalog view served by the storefront read path.
func (l *Ledger) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := l.DB.Query(ctx, `
		SELECT id, name, price, stock, in_stock FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.InStock); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LowStock lists products at or below the alert threshold, lowest first.
func (l *Ledger) LowStock(ctx context.Context) ([]Product, error) {
	rows, err := l.DB.Query(ctx, `
		SELECT id, name, price, stock, in_stock FROM products
		WHERE stock <= $1 ORDER BY stock, name`, LowStockThreshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.InStock); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// History returns one page of the ledger, newest first. productID narrows
// to one product when non-empty.
func (l *Ledger) History(ctx context.Context, productID string, page, limit int) ([]Entry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	rows, err := l.DB.Query(ctx, `
		SELECT id, product_id, product_name, change_type, quantity_change,
		       previous_stock, new_stock,
		       COALESCE(reason,''), COALESCE(order_id,''), COALESCE(admin_id,''), created_at
		FROM stock_history
		WHERE ($1 = '' OR product_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, productID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.ProductName, &e.ChangeType,
			&e.QuantityChange, &e.PreviousStock, &e.NewStock,
			&e.Reason, &e.OrderID, &e.AdminID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("order not found")
	ErrOrderNumberTaken = errors.New("order number already taken")
)

type Repo struct{ DB *pgxpool.Pool }

// InsertOrder persists the order and its snapshot items in one transaction.
// A duplicate order number surfaces as ErrOrderNumberTaken so the caller can
// redraw and retry.
func (r *Repo) InsertOrder(ctx context.Context, o *Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders
			(id, order_number, customer_name, customer_phone, customer_email,
			 area_id, address_note, subtotal, delivery_fee, total, status,
			 ip_address, user_agent, referer, risk_score, risk_reason)
		VALUES ($1,$2,$3,$4,NULLIF($5,''),$6,NULLIF($7,''),$8,$9,$10,$11,
		        NULLIF($12,''),NULLIF($13,''),NULLIF($14,''),$15,NULLIF($16,''))`,
		o.ID, o.OrderNumber, o.Customer.Name, o.Customer.Phone, o.Customer.Email,
		o.Customer.AreaID, o.Customer.AddressNote, o.Subtotal, o.DeliveryFee, o.Total, o.Status,
		o.IPAddress, o.UserAgent, o.Referer, o.RiskScore, o.RiskReason)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrOrderNumberTaken
		}
		return err
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, name, quantity, unit_price, line_total)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.LineTotal); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *Repo) GetOrder(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, order_number, customer_name, customer_phone, COALESCE(customer_email,''),
		       area_id, COALESCE(address_note,''), subtotal, delivery_fee, total, status,
		       COALESCE(ip_address,''), COALESCE(user_agent,''), COALESCE(referer,''),
		       risk_score, COALESCE(risk_reason,''),
		       COALESCE(tracking_info,''), COALESCE(estimated_delivery,''), COALESCE(notes,''),
		       stock_pending, created_at, updated_at
		FROM orders WHERE id=$1`, id).Scan(
		&o.ID, &o.OrderNumber, &o.Customer.Name, &o.Customer.Phone, &o.Customer.Email,
		&o.Customer.AreaID, &o.Customer.AddressNote, &o.Subtotal, &o.DeliveryFee, &o.Total, &o.Status,
		&o.IPAddress, &o.UserAgent, &o.Referer, &o.RiskScore, &o.RiskReason,
		&o.TrackingInfo, &o.EstimatedDelivery, &o.Notes,
		&o.StockPending, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT product_id, name, quantity, unit_price, line_total
		FROM order_items WHERE order_id=$1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}

func (r *Repo) Projection(ctx context.Context, id string) (StatusProjection, error) {
	var p StatusProjection
	err := r.DB.QueryRow(ctx, `
		SELECT id, order_number, status,
		       COALESCE(tracking_info,''), COALESCE(estimated_delivery,''), COALESCE(notes,''),
		       updated_at
		FROM orders WHERE id=$1`, id).Scan(
		&p.ID, &p.OrderNumber, &p.Status, &p.TrackingInfo, &p.EstimatedDelivery, &p.Notes, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return StatusProjection{}, ErrNotFound
	}
	if err != nil {
		return StatusProjection{}, err
	}
	p.StatusText = p.Status.Text()
	return p, nil
}

// TransitionStatus updates the status under a row lock and returns the
// previous status so the caller can decide stock effects. Tracking fields
// are only overwritten when provided.
func (r *Repo) TransitionStatus(ctx context.Context, id string, next Status, trackingInfo, estimatedDelivery, notes string) (Status, time.Time, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", time.Time{}, err
	}
	defer tx.Rollback(ctx)

	var prev Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&prev)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", time.Time{}, ErrNotFound
	}
	if err != nil {
		return "", time.Time{}, err
	}

	var updatedAt time.Time
	err = tx.QueryRow(ctx, `
		UPDATE orders SET
			status=$2,
			tracking_info=COALESCE(NULLIF($3,''), tracking_info),
			estimated_delivery=COALESCE(NULLIF($4,''), estimated_delivery),
			notes=COALESCE(NULLIF($5,''), notes),
			updated_at=now()
		WHERE id=$1
		RETURNING updated_at`, id, next, trackingInfo, estimatedDelivery, notes).Scan(&updatedAt)
	if err != nil {
		return "", time.Time{}, err
	}
	return prev, updatedAt, tx.Commit(ctx)
}

// MarkStockPending flags an order whose stock reconciliation failed.
func (r *Repo) MarkStockPending(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `UPDATE orders SET stock_pending=true, updated_at=now() WHERE id=$1`, id)
	return err
}

func (r *Repo) CountOrdersFromIP(ctx context.Context, ip string, window time.Duration) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE ip_address=$1 AND created_at > now() - make_interval(secs => $2)`,
		ip, window.Seconds()).Scan(&n)
	return n, err
}

func (r *Repo) CountDistinctIPsForPhone(ctx context.Context, phone string, window time.Duration) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(DISTINCT ip_address) FROM orders
		WHERE customer_phone=$1 AND ip_address IS NOT NULL AND created_at > now() - make_interval(secs => $2)`,
		phone, window.Seconds()).Scan(&n)
	return n, err
}

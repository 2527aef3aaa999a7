package postgres

import (
	"context"
	"errors"
	"fmt"

	"return_app/internal/core/domain"
	"return_app/internal/ports/outbound"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReturnRepository struct {
	pool *pgxpool.Pool
}

func NewReturnRepository(pool *pgxpool.Pool) *ReturnRepository {
	return &ReturnRepository{pool: pool}
}

// Upsert writes the request, replaces its items and adds comments not yet
// stored (matched on status, text and timestamp).
func (r *ReturnRepository) Upsert(ctx context.Context, rr domain.ReturnRequest) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	c, p, f := rr.Customer, rr.Pickup, rr.Refund
	_, err = tx.Exec(ctx, `
		INSERT INTO return_requests (
			id, order_id, status, date_submitted, currency_code,
			customer_name, customer_email, customer_phone,
			pickup_address_id, pickup_address, pickup_city, pickup_state, pickup_zip, pickup_country,
			refund_method, refund_iban, refund_holder, user_comment, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18, now()
		)
		ON CONFLICT (id) DO UPDATE SET
			order_id = EXCLUDED.order_id,
			status = EXCLUDED.status,
			date_submitted = EXCLUDED.date_submitted,
			currency_code = EXCLUDED.currency_code,
			customer_name = EXCLUDED.customer_name,
			customer_email = EXCLUDED.customer_email,
			customer_phone = EXCLUDED.customer_phone,
			pickup_address_id = EXCLUDED.pickup_address_id,
			pickup_address = EXCLUDED.pickup_address,
			pickup_city = EXCLUDED.pickup_city,
			pickup_state = EXCLUDED.pickup_state,
			pickup_zip = EXCLUDED.pickup_zip,
			pickup_country = EXCLUDED.pickup_country,
			refund_method = EXCLUDED.refund_method,
			refund_iban = EXCLUDED.refund_iban,
			refund_holder = EXCLUDED.refund_holder,
			user_comment = EXCLUDED.user_comment,
			updated_at = now()
	`, rr.ID, rr.OrderID, rr.Status.String(), rr.DateSubmitted, rr.CurrencyCode,
		c.Name, c.Email, c.Phone,
		p.AddressID, p.Address, p.City, p.State, p.Zip, p.Country,
		string(f.Method), f.IBAN, f.AccountHolder, rr.UserComment)
	if err != nil {
		return fmt.Errorf("upsert return_requests: %w", err)
	}

	// items
	if _, err = tx.Exec(ctx, `DELETE FROM return_items WHERE request_id = $1`, rr.ID); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	for _, it := range rr.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO return_items (
				request_id, order_item_index, name, image_url, ref_id, seller_name,
				quantity, selling_price, tax, condition, reason, other_reason, status
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		`, rr.ID, it.OrderItemIndex, it.Name, it.ImageURL, it.RefID, it.SellerName,
			it.Quantity, it.SellingPrice, it.Tax, it.Condition, it.Reason.Reason, it.Reason.OtherReason,
			it.Status.String())
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
	}

	// comments
	for _, cm := range rr.Comments {
		_, err = tx.Exec(ctx, `
			INSERT INTO return_comments (request_id, status, comment, visible_for_customer, submitted_by, created_at)
			SELECT $1,$2,$3,$4,$5,$6
			WHERE NOT EXISTS (
				SELECT 1 FROM return_comments
				WHERE request_id = $1 AND status = $2 AND comment = $3 AND created_at = $6
			)
		`, rr.ID, cm.Status.String(), cm.Text, cm.VisibleForCustomer, cm.SubmittedBy, cm.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const selectRequest = `
	SELECT
		id, order_id, status, date_submitted, currency_code,
		customer_name, customer_email, customer_phone,
		pickup_address_id, pickup_address, pickup_city, pickup_state, pickup_zip, pickup_country,
		refund_method, refund_iban, refund_holder, user_comment
	FROM return_requests`

func scanRequest(row pgx.Row) (domain.ReturnRequest, error) {
	var (
		rr     domain.ReturnRequest
		status string
		method string
	)
	err := row.Scan(
		&rr.ID, &rr.OrderID, &status, &rr.DateSubmitted, &rr.CurrencyCode,
		&rr.Customer.Name, &rr.Customer.Email, &rr.Customer.Phone,
		&rr.Pickup.AddressID, &rr.Pickup.Address, &rr.Pickup.City, &rr.Pickup.State,
		&rr.Pickup.Zip, &rr.Pickup.Country,
		&method, &rr.Refund.IBAN, &rr.Refund.AccountHolder, &rr.UserComment,
	)
	if err != nil {
		return domain.ReturnRequest{}, err
	}
	if rr.Status, err = domain.ParseStatus(status); err != nil {
		return domain.ReturnRequest{}, fmt.Errorf("request %s: %w", rr.ID, err)
	}
	rr.Refund.Method = domain.RefundMethod(method)
	return rr, nil
}

func (r *ReturnRepository) GetByID(ctx context.Context, id string) (domain.ReturnRequest, error) {
	rr, err := scanRequest(r.pool.QueryRow(ctx, selectRequest+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ReturnRequest{}, domain.ErrNotFound
		}
		return domain.ReturnRequest{}, fmt.Errorf("scan request: %w", err)
	}

	if rr.Items, err = r.items(ctx, id); err != nil {
		return domain.ReturnRequest{}, err
	}
	if rr.Comments, err = r.comments(ctx, id); err != nil {
		return domain.ReturnRequest{}, err
	}
	return rr, nil
}

func (r *ReturnRepository) items(ctx context.Context, id string) ([]domain.ReturnItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT order_item_index, name, image_url, ref_id, seller_name, quantity,
			selling_price, tax, condition, reason, other_reason, status
		FROM return_items
		WHERE request_id = $1
		ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var out []domain.ReturnItem
	for rows.Next() {
		var (
			it     domain.ReturnItem
			status string
		)
		if err := rows.Scan(
			&it.OrderItemIndex, &it.Name, &it.ImageURL, &it.RefID, &it.SellerName, &it.Quantity,
			&it.SellingPrice, &it.Tax, &it.Condition, &it.Reason.Reason, &it.Reason.OtherReason, &status,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if it.Status, err = domain.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("item status: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("items rows: %w", err)
	}
	return out, nil
}

func (r *ReturnRepository) comments(ctx context.Context, id string) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, comment, visible_for_customer, submitted_by, created_at
		FROM return_comments
		WHERE request_id = $1
		ORDER BY created_at ASC, id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		var (
			c      domain.Comment
			status string
		)
		if err := rows.Scan(&status, &c.Text, &c.VisibleForCustomer, &c.SubmittedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if c.Status, err = domain.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("comment status: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("comments rows: %w", err)
	}
	return out, nil
}

// AppendComment records c and moves the request to status in one transaction.
func (r *ReturnRepository) AppendComment(ctx context.Context, id string, status domain.Status, c domain.Comment) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE return_requests SET status = $2, updated_at = now() WHERE id = $1
	`, id, status.String())
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO return_comments (request_id, status, comment, visible_for_customer, submitted_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, id, c.Status.String(), c.Text, c.VisibleForCustomer, c.SubmittedBy, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListLatest returns requests newest first with their items; comments are
// left out.
func (r *ReturnRepository) ListLatest(ctx context.Context, limit, offset int) ([]domain.ReturnRequest, error) {
	if limit <= 0 {
		return []domain.ReturnRequest{}, nil
	}

	rows, err := r.pool.Query(ctx, selectRequest+`
		ORDER BY date_submitted DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list latest: %w", err)
	}
	defer rows.Close()

	var out []domain.ReturnRequest
	for rows.Next() {
		rr, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	for i := range out {
		items, err := r.items(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *ReturnRepository) CountRequests(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM return_requests`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return n, nil
}

var _ outbound.ReturnRepository = (*ReturnRepository)(nil)

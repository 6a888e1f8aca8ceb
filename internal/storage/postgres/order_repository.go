package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// PlaceOrder выполняет всю сборку заказа в одной транзакции:
// заголовок в creating, позиции, перевод в pending, безусловная очистка
// корзины владельца и постановка события в outbox. Либо всё, либо ничего —
// частично собранных заказов Postgres-реализация не оставляет.
func (r *orderRepository) PlaceOrder(order domain.Order, event domain.OutboxMessage) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	var snapshot []byte
	if order.ShippingAddress != nil {
		var err error
		snapshot, err = json.Marshal(order.ShippingAddress)
		if err != nil {
			return domain.Order{}, fmt.Errorf("marshal address snapshot: %w", err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, owner_id, total_amount, status, shipping_address,
			payment_method, utr_number, payment_status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		order.ID, order.OwnerID, order.TotalAmount, string(domain.OrderStatusCreating),
		snapshot, string(order.PaymentMethod), nullString(order.UTRNumber),
		nullString(order.PaymentStatus), order.CreatedAt, order.UpdatedAt,
	); err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.NewString()
		}
		order.Items[i].OrderID = order.ID
		item := order.Items[i]
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, position, product_name, unit_price, quantity)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, item.ID, item.OrderID, i, item.ProductName, item.UnitPrice, item.Quantity); err != nil {
			return domain.Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1
	`, order.ID, string(domain.OrderStatusPending), now); err != nil {
		return domain.Order{}, fmt.Errorf("flip order to pending: %w", err)
	}
	order.Status = domain.OrderStatusPending

	// Корзина очищается целиком: источником заказа считается вся корзина.
	if _, err = tx.ExecContext(ctx, `
		DELETE FROM cart_lines WHERE owner_id = $1
	`, order.OwnerID); err != nil {
		return domain.Order{}, fmt.Errorf("clear cart: %w", err)
	}

	if event.EventType != "" {
		if event.ID == "" {
			event.ID = uuid.NewString()
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO outbox_messages (
				id, aggregate_type, aggregate_id, event_type, payload,
				status, attempt_count, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,'pending',0,$6,$7)
		`, event.ID, event.AggregateType, event.AggregateID, event.EventType, event.Payload, now, now); err != nil {
			return domain.Order{}, fmt.Errorf("enqueue order event: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit place order: %w", err)
	}

	return order, nil
}

const orderColumns = `
	id, owner_id, total_amount, status, shipping_address,
	payment_method, utr_number, payment_status, created_at, updated_at`

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1
	`, id))
	if err != nil {
		return domain.Order{}, err
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) ListByOwner(ownerID string) ([]domain.Order, error) {
	return r.list(`WHERE owner_id = $1 AND status <> 'creating'`, ownerID)
}

func (r *orderRepository) ListAll() ([]domain.Order, error) {
	return r.list(`WHERE status <> 'creating'`)
}

func (r *orderRepository) list(where string, args ...any) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		`+where+`
		ORDER BY created_at DESC, id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *orderRepository) UpdateStatus(id string, status, paymentStatus string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status         = COALESCE(NULLIF($2, ''), status),
		    payment_status = COALESCE(NULLIF($3, ''), payment_status),
		    updated_at     = $4
		WHERE id = $1
	`, id, status, paymentStatus, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// Delete удаляет заказ вместе с позициями; позиции первыми,
// внешних ключей в схеме нет.
func (r *orderRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	var affected int64
	affected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		err = domain.ErrOrderNotFound
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete order: %w", err)
	}

	return nil
}

func (r *orderRepository) DeleteByOwner(ownerID string) (int, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var itemsRes sql.Result
	itemsRes, err = tx.ExecContext(ctx, `
		DELETE FROM order_items
		WHERE order_id IN (SELECT id FROM orders WHERE owner_id = $1)
	`, ownerID)
	if err != nil {
		return 0, 0, fmt.Errorf("delete owner order items: %w", err)
	}
	items, err := itemsRes.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("rows affected: %w", err)
	}

	var ordersRes sql.Result
	ordersRes, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, 0, fmt.Errorf("delete owner orders: %w", err)
	}
	orders, err := ordersRes.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("rows affected: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit delete owner orders: %w", err)
	}

	return int(orders), int(items), nil
}

// PruneCreating убирает заказы, застрявшие в creating дольше порога, —
// след от незавершённой сборки на нетранзакционном хранилище.
func (r *orderRepository) PruneCreating(before time.Time, limit int) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM order_items
		WHERE order_id IN (
			SELECT id FROM orders
			WHERE status = 'creating' AND created_at <= $1
			ORDER BY created_at
			LIMIT $2
		)
	`, before, limit); err != nil {
		return 0, fmt.Errorf("prune creating order items: %w", err)
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx, `
		DELETE FROM orders
		WHERE id IN (
			SELECT id FROM orders
			WHERE status = 'creating' AND created_at <= $1
			ORDER BY created_at
			LIMIT $2
		)
	`, before, limit)
	if err != nil {
		return 0, fmt.Errorf("prune creating orders: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}

	return int(affected), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *orderRepository) scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order         domain.Order
		status        string
		paymentMethod string
		snapshot      []byte
		utr           sql.NullString
		paymentStatus sql.NullString
	)

	err := row.Scan(
		&order.ID, &order.OwnerID, &order.TotalAmount, &status, &snapshot,
		&paymentMethod, &utr, &paymentStatus, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}

	order.Status = domain.OrderStatus(status)
	order.PaymentMethod = domain.PaymentMethod(paymentMethod)
	order.UTRNumber = utr.String
	order.PaymentStatus = paymentStatus.String

	if len(snapshot) > 0 {
		var addr domain.AddressSnapshot
		if err := json.Unmarshal(snapshot, &addr); err != nil {
			return domain.Order{}, fmt.Errorf("unmarshal address snapshot: %w", err)
		}
		order.ShippingAddress = &addr
	}

	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_name, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductName, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ domain.OrderRepository = (*orderRepository)(nil)

package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/trucksy/internal/adapter/storage"
	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db *storage.DB
}

var _ port.Repository = (*Repository)(nil)

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

var orderColumns = []string{
	"id", "client_id", "truck_id", "status", "total_price", "payment_id", "created_at", "updated_at",
}

var chargeColumns = []string{
	"id", "kind", "subject_id", "amount", "currency", "status", "created_at", "settled_at",
}

func (r *Repository) ReadTruck(ctx context.Context, truckID uint64) (*domain.Truck, error) {
	sql, args, err := r.db.QueryBuilder.
		Select("id", "owner_id", "name", "status").
		From("food_trucks").
		Where(sq.Eq{"id": truckID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	truck := domain.Truck{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&truck.ID, &truck.OwnerID, &truck.Name, &truck.Status)
	if err != nil {
		return nil, mapError(err)
	}
	return &truck, nil
}

func (r *Repository) ReadItem(ctx context.Context, itemID uint64) (*domain.Item, error) {
	sql, args, err := r.db.QueryBuilder.
		Select("id", "truck_id", "name", "price", "is_available").
		From("items").
		Where(sq.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	item := domain.Item{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&item.ID, &item.TruckID, &item.Name, &item.Price, &item.IsAvailable)
	if err != nil {
		return nil, mapError(err)
	}
	return &item, nil
}

func (r *Repository) ReadUser(ctx context.Context, userID uint64) (*domain.User, error) {
	sql, args, err := r.db.QueryBuilder.
		Select("id", "username", "email", "phone").
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	user := domain.User{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.Username, &user.Email, &user.Phone)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *Repository) ReadAccount(ctx context.Context, userID uint64) (*domain.Account, error) {
	return r.readAccount(ctx, r.db, userID, false)
}

func (r *Repository) readAccount(ctx context.Context, q querier, userID uint64, lock bool) (*domain.Account, error) {
	st := r.db.QueryBuilder.
		Select("user_id", "balance", "card_name", "card_number", "card_cvc", "card_month", "card_year").
		From("accounts").
		Where(sq.Eq{"user_id": userID})
	if lock {
		st = st.Suffix("FOR UPDATE")
	}
	sql, args, err := st.ToSql()
	if err != nil {
		return nil, err
	}

	acc := domain.Account{}
	err = q.QueryRow(ctx, sql, args...).Scan(
		&acc.UserID,
		&acc.Balance,
		&acc.Card.Name,
		&acc.Card.Number,
		&acc.Card.CVC,
		&acc.Card.Month,
		&acc.Card.Year,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &acc, nil
}

func (r *Repository) updateBalance(ctx context.Context, q querier, acc *domain.Account) error {
	sql, args, err := r.db.QueryBuilder.
		Update("accounts").
		Set("balance", acc.Balance).
		Where(sq.Eq{"user_id": acc.UserID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, sql, args...)
	return err
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.db.QueryBuilder.
			Insert("orders").
			Columns("client_id", "truck_id", "status", "total_price", "payment_id", "created_at", "updated_at").
			Values(order.ClientID, order.TruckID, order.Status, order.TotalPrice,
				order.PaymentID, order.CreatedAt, order.UpdatedAt).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&order.ID); err != nil {
			return err
		}

		if len(order.Lines) == 0 {
			return nil
		}
		lines := r.db.QueryBuilder.
			Insert("order_lines").
			Columns("order_id", "item_id", "item_name", "quantity", "unit_price")
		for _, l := range order.Lines {
			lines = lines.Values(order.ID, l.ItemID, l.ItemName, l.Quantity, l.UnitPrice)
		}
		sql, args, err = lines.ToSql()
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	return r.readOrder(ctx, r.db, orderID, false)
}

func (r *Repository) readOrder(ctx context.Context, q querier, orderID uint64, lock bool) (*domain.Order, error) {
	st := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID})
	if lock {
		st = st.Suffix("FOR UPDATE")
	}
	sql, args, err := st.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err)
	}

	lines, err := r.readLines(ctx, q, []uint64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[order.ID]
	return order, nil
}

func (r *Repository) ListOrdersByClient(ctx context.Context, clientID uint64) ([]*domain.Order, error) {
	return r.listOrders(ctx, sq.Eq{"client_id": clientID})
}

func (r *Repository) ListOrdersByTruck(ctx context.Context, truckID uint64) ([]*domain.Order, error) {
	return r.listOrders(ctx, sq.Eq{"truck_id": truckID})
}

func (r *Repository) listOrders(ctx context.Context, where sq.Eq) ([]*domain.Order, error) {
	sql, args, err := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(where).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	lines, err := r.readLines(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		o.Lines = lines[o.ID]
	}
	return list, nil
}

func (r *Repository) readLines(ctx context.Context, q querier, orderIDs []uint64) (map[uint64][]domain.OrderLine, error) {
	sql, args, err := r.db.QueryBuilder.
		Select("order_id", "item_id", "item_name", "quantity", "unit_price").
		From("order_lines").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("order_id", "item_id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[uint64][]domain.OrderLine, len(orderIDs))
	for rows.Next() {
		var orderID uint64
		l := domain.OrderLine{}
		if err := rows.Scan(&orderID, &l.ItemID, &l.ItemName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		res[orderID] = append(res[orderID], l)
	}
	return res, rows.Err()
}

func (r *Repository) updateOrder(ctx context.Context, q querier, order *domain.Order) error {
	sql, args, err := r.db.QueryBuilder.
		Update("orders").
		Set("status", order.Status).
		Set("payment_id", order.PaymentID).
		Set("updated_at", order.UpdatedAt).
		Where(sq.Eq{"id": order.ID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, sql, args...)
	return err
}

func (r *Repository) UpdateOrderStatus(ctx context.Context,
	orderID uint64, updateFn port.UpdateOrderFn) (*domain.Order, error) {
	var order *domain.Order
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		order, err = r.readOrder(ctx, tx, orderID, true)
		if err != nil {
			return err
		}
		if err := updateFn(order); err != nil {
			return err
		}
		return r.updateOrder(ctx, tx, order)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// SettleOrder locks rows in a fixed order (order, account, charge) so concurrent
// settlements of the same order serialize on the order row.
func (r *Repository) SettleOrder(ctx context.Context,
	orderID uint64, chargeID string, settleFn port.SettleOrderFn) (*domain.Order, error) {
	var order *domain.Order
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		order, err = r.readOrder(ctx, tx, orderID, true)
		if err != nil {
			return err
		}
		acc, err := r.readAccount(ctx, tx, order.ClientID, true)
		if err != nil {
			return err
		}
		charge, err := r.readCharge(ctx, tx, chargeID, true)
		if err != nil {
			return err
		}

		if err := settleFn(order, acc, charge); err != nil {
			return err
		}

		if err := r.updateOrder(ctx, tx, order); err != nil {
			return err
		}
		if err := r.updateBalance(ctx, tx, acc); err != nil {
			return err
		}
		return r.updateCharge(ctx, tx, charge)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (r *Repository) ReadOwner(ctx context.Context, ownerID uint64) (*domain.Owner, error) {
	return r.readOwner(ctx, r.db, ownerID, false)
}

func (r *Repository) readOwner(ctx context.Context, q querier, ownerID uint64, lock bool) (*domain.Owner, error) {
	st := r.db.QueryBuilder.
		Select("u.id", "u.username", "u.email", "u.phone", "o.is_subscribed", "o.start_date", "o.end_date").
		From("owners o").
		Join("users u ON u.id = o.user_id").
		Where(sq.Eq{"o.user_id": ownerID})
	if lock {
		st = st.Suffix("FOR UPDATE OF o")
	}
	sql, args, err := st.ToSql()
	if err != nil {
		return nil, err
	}

	owner := domain.Owner{}
	err = q.QueryRow(ctx, sql, args...).Scan(
		&owner.User.ID,
		&owner.User.Username,
		&owner.User.Email,
		&owner.User.Phone,
		&owner.Subscription.IsSubscribed,
		&owner.Subscription.StartDate,
		&owner.Subscription.EndDate,
	)
	if err != nil {
		return nil, mapError(err)
	}
	owner.ID = owner.User.ID
	return &owner, nil
}

func (r *Repository) updateOwner(ctx context.Context, q querier, owner *domain.Owner) error {
	sql, args, err := r.db.QueryBuilder.
		Update("owners").
		Set("is_subscribed", owner.Subscription.IsSubscribed).
		Set("start_date", owner.Subscription.StartDate).
		Set("end_date", owner.Subscription.EndDate).
		Where(sq.Eq{"user_id": owner.ID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, sql, args...)
	return err
}

func (r *Repository) UpdateSubscription(ctx context.Context,
	ownerID uint64, updateFn port.UpdateSubscriptionFn) (*domain.Owner, error) {
	var owner *domain.Owner
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		owner, err = r.readOwner(ctx, tx, ownerID, true)
		if err != nil {
			return err
		}
		if err := updateFn(owner); err != nil {
			return err
		}
		return r.updateOwner(ctx, tx, owner)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return owner, nil
}

func (r *Repository) SettleSubscription(ctx context.Context,
	ownerID uint64, chargeID string, settleFn port.SettleSubscriptionFn) (*domain.Owner, error) {
	var owner *domain.Owner
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		owner, err = r.readOwner(ctx, tx, ownerID, true)
		if err != nil {
			return err
		}
		acc, err := r.readAccount(ctx, tx, ownerID, true)
		if err != nil {
			return err
		}
		charge, err := r.readCharge(ctx, tx, chargeID, true)
		if err != nil {
			return err
		}

		if err := settleFn(owner, acc, charge); err != nil {
			return err
		}

		if err := r.updateOwner(ctx, tx, owner); err != nil {
			return err
		}
		if err := r.updateBalance(ctx, tx, acc); err != nil {
			return err
		}
		return r.updateCharge(ctx, tx, charge)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return owner, nil
}

func (r *Repository) CreateCharge(ctx context.Context, charge *domain.Charge) error {
	sql, args, err := r.db.QueryBuilder.
		Insert("charges").
		Columns(chargeColumns...).
		Values(charge.ID, charge.Kind, charge.SubjectID, charge.Amount, charge.Currency,
			charge.Status, charge.CreatedAt, charge.SettledAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return mapError(err)
}

func (r *Repository) ReadCharge(ctx context.Context, chargeID string) (*domain.Charge, error) {
	return r.readCharge(ctx, r.db, chargeID, false)
}

func (r *Repository) readCharge(ctx context.Context, q querier, chargeID string, lock bool) (*domain.Charge, error) {
	st := r.db.QueryBuilder.
		Select(chargeColumns...).
		From("charges").
		Where(sq.Eq{"id": chargeID})
	if lock {
		st = st.Suffix("FOR UPDATE")
	}
	sql, args, err := st.ToSql()
	if err != nil {
		return nil, err
	}

	c := domain.Charge{}
	err = q.QueryRow(ctx, sql, args...).Scan(
		&c.ID,
		&c.Kind,
		&c.SubjectID,
		&c.Amount,
		&c.Currency,
		&c.Status,
		&c.CreatedAt,
		&c.SettledAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *Repository) updateCharge(ctx context.Context, q querier, charge *domain.Charge) error {
	sql, args, err := r.db.QueryBuilder.
		Update("charges").
		Set("status", charge.Status).
		Set("settled_at", charge.SettledAt).
		Where(sq.Eq{"id": charge.ID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, sql, args...)
	return err
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.ClientID,
		&order.TruckID,
		&order.Status,
		&order.TotalPrice,
		&order.PaymentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// mapError translates driver errors into domain errors. Domain errors returned
// from closures pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrDataNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return domain.ErrConflictingData
		case pgerrcode.ForeignKeyViolation:
			return domain.ErrDataNotFound
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrBadRequest, pgErr.ConstraintName)
		}
	}
	return err
}

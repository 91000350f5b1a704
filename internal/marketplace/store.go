package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ServiceStore is the persistence gateway for services.
type ServiceStore interface {
	List(ctx context.Context) ([]Service, error)
	Get(ctx context.Context, id string) (Service, error)
	Insert(ctx context.Context, s Service) error
	Update(ctx context.Context, s Service) error
	Delete(ctx context.Context, id string) error
}

// OrderStore is the persistence gateway for orders.
type OrderStore interface {
	List(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID, role string) ([]Order, error)
	Get(ctx context.Context, id string) (Order, error)
	Insert(ctx context.Context, o Order) error
	Update(ctx context.Context, o Order) error
}

// ReviewStore is the persistence gateway for reviews.
type ReviewStore interface {
	Insert(ctx context.Context, r Review) error
	GetByOrder(ctx context.Context, orderID string) (Review, error)
	ListBySeller(ctx context.Context, sellerID string) ([]Review, error)
	ListByService(ctx context.Context, serviceID string) ([]Review, error)
}

// ProfileAggregates is the narrow slice of the profile gateway the
// lifecycle and review engines need for their recompute paths.
type ProfileAggregates interface {
	SetSellerLevel(ctx context.Context, sellerID, level string) error
	SetRating(ctx context.Context, sellerID string, rating float64, totalReviews int) error
}

// SettingsSource supplies the global configuration the engines read.
type SettingsSource interface {
	CommissionRate(ctx context.Context) (float64, error)
	FeaturedCategories(ctx context.Context) ([]string, error)
}

// PGServiceStore implements ServiceStore over the Postgres pool.
type PGServiceStore struct {
	pool *pgxpool.Pool
}

func NewPGServiceStore(pool *pgxpool.Pool) *PGServiceStore {
	return &PGServiceStore{pool: pool}
}

const serviceColumns = `id, seller_id, title, description, category, sub_category,
        tags, images, pricing, status, rating, total_orders, created_at`

func scanService(row pgx.Row) (Service, error) {
	var s Service
	var pricing []byte
	err := row.Scan(&s.ID, &s.SellerID, &s.Title, &s.Description, &s.Category,
		&s.SubCategory, &s.Tags, &s.Images, &pricing, &s.Status, &s.Rating,
		&s.TotalOrders, &s.CreatedAt)
	if err != nil {
		return Service{}, err
	}
	if err := json.Unmarshal(pricing, &s.Pricing); err != nil {
		return Service{}, fmt.Errorf("decode pricing for service %s: %w", s.ID, err)
	}
	return s, nil
}

func (st *PGServiceStore) List(ctx context.Context) ([]Service, error) {
	rows, err := st.pool.Query(ctx,
		`SELECT `+serviceColumns+` FROM services ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (st *PGServiceStore) Get(ctx context.Context, id string) (Service, error) {
	row := st.pool.QueryRow(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	s, err := scanService(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Service{}, ErrServiceNotFound
	}
	if err != nil {
		return Service{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return s, nil
}

func (st *PGServiceStore) Insert(ctx context.Context, s Service) error {
	pricing, err := json.Marshal(s.Pricing)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	_, err = st.pool.Exec(ctx, `
        INSERT INTO services (id, seller_id, title, description, category, sub_category,
            tags, images, pricing, status, rating, total_orders, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.SellerID, s.Title, s.Description, s.Category, s.SubCategory,
		s.Tags, s.Images, pricing, s.Status, s.Rating, s.TotalOrders, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (st *PGServiceStore) Update(ctx context.Context, s Service) error {
	pricing, err := json.Marshal(s.Pricing)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	ct, err := st.pool.Exec(ctx, `
        UPDATE services
        SET title = $2, description = $3, category = $4, sub_category = $5,
            tags = $6, images = $7, pricing = $8, status = $9,
            rating = $10, total_orders = $11
        WHERE id = $1`,
		s.ID, s.Title, s.Description, s.Category, s.SubCategory,
		s.Tags, s.Images, pricing, s.Status, s.Rating, s.TotalOrders)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (st *PGServiceStore) Delete(ctx context.Context, id string) error {
	ct, err := st.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// PGOrderStore implements OrderStore over the Postgres pool.
type PGOrderStore struct {
	pool *pgxpool.Pool
}

func NewPGOrderStore(pool *pgxpool.Pool) *PGOrderStore {
	return &PGOrderStore{pool: pool}
}

const orderColumns = `id, service_id, buyer_id, seller_id, package, amount,
        commission_amount, requirements, revision_count, max_revisions,
        delivery_date, status, created_at, updated_at, completed_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.ServiceID, &o.BuyerID, &o.SellerID, &o.Package,
		&o.Amount, &o.CommissionAmount, &o.Requirements, &o.RevisionCount,
		&o.MaxRevisions, &o.DeliveryDate, &o.Status, &o.CreatedAt,
		&o.UpdatedAt, &o.CompletedAt)
	return o, err
}

func (st *PGOrderStore) List(ctx context.Context) ([]Order, error) {
	rows, err := st.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (st *PGOrderStore) ListByUser(ctx context.Context, userID, role string) ([]Order, error) {
	column := "buyer_id"
	if role == "seller" {
		column = "seller_id"
	}
	rows, err := st.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE `+column+` = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (st *PGOrderStore) Get(ctx context.Context, id string) (Order, error) {
	row := st.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return o, nil
}

func (st *PGOrderStore) Insert(ctx context.Context, o Order) error {
	_, err := st.pool.Exec(ctx, `
        INSERT INTO orders (id, service_id, buyer_id, seller_id, package, amount,
            commission_amount, requirements, revision_count, max_revisions,
            delivery_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.ServiceID, o.BuyerID, o.SellerID, o.Package, o.Amount,
		o.CommissionAmount, o.Requirements, o.RevisionCount, o.MaxRevisions,
		o.DeliveryDate, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (st *PGOrderStore) Update(ctx context.Context, o Order) error {
	ct, err := st.pool.Exec(ctx, `
        UPDATE orders
        SET status = $2, revision_count = $3, updated_at = $4, completed_at = $5
        WHERE id = $1`,
		o.ID, o.Status, o.RevisionCount, o.UpdatedAt, o.CompletedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// PGReviewStore implements ReviewStore over the Postgres pool.
type PGReviewStore struct {
	pool *pgxpool.Pool
}

func NewPGReviewStore(pool *pgxpool.Pool) *PGReviewStore {
	return &PGReviewStore{pool: pool}
}

const reviewColumns = `id, order_id, service_id, buyer_id, seller_id, rating, comment, created_at`

func scanReview(row pgx.Row) (Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.OrderID, &r.ServiceID, &r.BuyerID, &r.SellerID,
		&r.Rating, &r.Comment, &r.CreatedAt)
	return r, err
}

func (st *PGReviewStore) Insert(ctx context.Context, r Review) error {
	_, err := st.pool.Exec(ctx, `
        INSERT INTO reviews (id, order_id, service_id, buyer_id, seller_id, rating, comment, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.OrderID, r.ServiceID, r.BuyerID, r.SellerID, r.Rating, r.Comment, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (st *PGReviewStore) GetByOrder(ctx context.Context, orderID string) (Review, error) {
	row := st.pool.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE order_id = $1`, orderID)
	r, err := scanReview(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, ErrReviewNotFound
	}
	if err != nil {
		return Review{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return r, nil
}

func (st *PGReviewStore) ListBySeller(ctx context.Context, sellerID string) ([]Review, error) {
	return st.listBy(ctx, "seller_id", sellerID)
}

func (st *PGReviewStore) ListByService(ctx context.Context, serviceID string) ([]Review, error) {
	return st.listBy(ctx, "service_id", serviceID)
}

func (st *PGReviewStore) listBy(ctx context.Context, column, id string) ([]Review, error) {
	rows, err := st.pool.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE `+column+` = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// PGProfileAggregates implements ProfileAggregates over the Postgres pool.
type PGProfileAggregates struct {
	pool *pgxpool.Pool
}

func NewPGProfileAggregates(pool *pgxpool.Pool) *PGProfileAggregates {
	return &PGProfileAggregates{pool: pool}
}

func (st *PGProfileAggregates) SetSellerLevel(ctx context.Context, sellerID, level string) error {
	_, err := st.pool.Exec(ctx,
		`UPDATE profiles SET seller_level = $2 WHERE id = $1`, sellerID, level)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (st *PGProfileAggregates) SetRating(ctx context.Context, sellerID string, rating float64, totalReviews int) error {
	_, err := st.pool.Exec(ctx,
		`UPDATE profiles SET rating = $2, total_reviews = $3 WHERE id = $1`,
		sellerID, rating, totalReviews)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

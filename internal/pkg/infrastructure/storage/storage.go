package storage

import (
	"context"
	"fmt"

	"github.com/diwise/entity-extensions/internal/pkg/application/extensions/giftmessage"
	"github.com/diwise/entity-extensions/internal/pkg/application/readmodel"
	"github.com/diwise/entity-extensions/pkg/datamodels/orders"
	"github.com/diwise/entity-extensions/pkg/extensions/pipeline"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func LoadConfiguration(ctx context.Context) Config {
	return Config{
		host:     env.GetVariableOrDefault(ctx, "POSTGRES_HOST", ""),
		user:     env.GetVariableOrDefault(ctx, "POSTGRES_USER", ""),
		password: env.GetVariableOrDefault(ctx, "POSTGRES_PASSWORD", ""),
		port:     env.GetVariableOrDefault(ctx, "POSTGRES_PORT", "5432"),
		dbname:   env.GetVariableOrDefault(ctx, "POSTGRES_DBNAME", "diwise"),
		sslmode:  env.GetVariableOrDefault(ctx, "POSTGRES_SSLMODE", "disable"),
	}
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnStr())
	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)
	if err != nil {
		return nil, err
	}

	return pool, nil
}

// OrderRepository is the production repository behind the augmentation
// pipeline. It also serves the gift message extension its raw records.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) FetchAll(ctx context.Context, entityKind string) (readmodel.FetchResult, error) {
	if entityKind != orders.EntityKind {
		return readmodel.FetchResult{}, readmodel.NewUnknownEntityKindError(entityKind)
	}

	sql := `SELECT order_id, order_number, status, total_amount FROM orders ORDER BY order_number;`

	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return readmodel.FetchResult{}, err
	}
	defer rows.Close()

	entities := make([]pipeline.Entity, 0, 64)

	for rows.Next() {
		var id, number, status string
		var total float64

		err = rows.Scan(&id, &number, &status, &total)
		if err != nil {
			return readmodel.FetchResult{}, err
		}

		entities = append(entities, orders.New(id, number, status, total))
	}

	if err = rows.Err(); err != nil {
		return readmodel.FetchResult{}, err
	}

	return readmodel.FetchResult{
		Entities:   entities,
		TotalCount: len(entities),
	}, nil
}

func (r *OrderRepository) FetchGiftMessage(ctx context.Context, orderID string) (map[string]any, error) {
	sql := `SELECT sender, recipient, message FROM gift_messages WHERE order_id=$1;`

	var sender, recipient, message string

	err := r.pool.QueryRow(ctx, sql, orderID).Scan(&sender, &recipient, &message)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, giftmessage.ErrNoGiftMessage
		}
		return nil, err
	}

	return map[string]any{
		"sender":    sender,
		"recipient": recipient,
		"message":   message,
	}, nil
}

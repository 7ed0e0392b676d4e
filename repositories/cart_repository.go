package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"kiosk-order/cart"
)

// RedisCartRepository keeps one cart blob per device session.
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{client: client, ttl: ttl}
}

// ErrCartConflict reports that the stored cart changed since it was loaded.
var ErrCartConflict = errors.New("cart was modified concurrently")

func cartKey(sessionID string) string {
	return cart.BlobName + ":" + sessionID
}

func (r *RedisCartRepository) Load(ctx context.Context, sessionID string) (*cart.Snapshot, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get cart")
	}

	snap, err := cart.Decode(data)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save writes snap only while the stored revision still equals expected.
// The key is watched so a write from another instance aborts the
// transaction.
func (r *RedisCartRepository) Save(ctx context.Context, sessionID string, snap cart.Snapshot, expected int64) error {
	data, err := cart.Encode(snap)
	if err != nil {
		return err
	}
	key := cartKey(sessionID)

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := storedRevision(tx.Get(ctx, key))
		if err != nil {
			return err
		}
		if current != expected {
			return ErrCartConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, key)

	if err == redis.TxFailedErr || errors.Is(err, ErrCartConflict) {
		return ErrCartConflict
	}
	if err != nil {
		return errors.Wrap(err, "redis set cart")
	}
	return nil
}

func storedRevision(cmd *redis.StringCmd) (int64, error) {
	data, err := cmd.Bytes()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "redis get cart")
	}

	snap, err := cart.Decode(data)
	if err != nil {
		return 0, err
	}
	return snap.Revision, nil
}

type PostgresCartRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCartRepository(db *pgxpool.Pool) *PostgresCartRepository {
	return &PostgresCartRepository{db: db}
}

func (r *PostgresCartRepository) Load(ctx context.Context, sessionID string) (*cart.Snapshot, error) {
	var (
		data     []byte
		revision int64
	)
	err := r.db.QueryRow(ctx,
		`SELECT payload, revision FROM cart_snapshots WHERE session_id = $1`, sessionID,
	).Scan(&data, &revision)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select cart snapshot")
	}

	snap, err := cart.Decode(data)
	if err != nil {
		return nil, err
	}
	snap.Revision = revision
	return &snap, nil
}

func (r *PostgresCartRepository) Save(ctx context.Context, sessionID string, snap cart.Snapshot, expected int64) error {
	data, err := cart.Encode(snap)
	if err != nil {
		return err
	}

	query := `
		UPDATE cart_snapshots SET payload = $2, revision = $3, updated_at = $4
		WHERE session_id = $1 AND revision = $5
	`
	args := []interface{}{sessionID, data, snap.Revision, time.Now(), expected}
	if expected == 0 {
		query = `
			INSERT INTO cart_snapshots (session_id, payload, revision, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (session_id) DO NOTHING
		`
		args = args[:4]
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "save cart snapshot")
	}
	if tag.RowsAffected() == 0 {
		return ErrCartConflict
	}
	return nil
}

type memoryBlob struct {
	data      []byte
	revision  int64
	expiresAt time.Time
}

// MemoryCartRepository stores encoded blobs in process memory. Blobs older
// than the TTL are dropped; a zero TTL keeps them forever.
type MemoryCartRepository struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	blobs map[string]memoryBlob
}

func NewMemoryCartRepository(ttl time.Duration) *MemoryCartRepository {
	return &MemoryCartRepository{
		ttl:   ttl,
		now:   time.Now,
		blobs: make(map[string]memoryBlob),
	}
}

func (r *MemoryCartRepository) expired(b memoryBlob) bool {
	return !b.expiresAt.IsZero() && !r.now().Before(b.expiresAt)
}

// lookup must be called with r.mu held.
func (r *MemoryCartRepository) lookup(sessionID string) (memoryBlob, bool) {
	b, ok := r.blobs[sessionID]
	if ok && r.expired(b) {
		delete(r.blobs, sessionID)
		return memoryBlob{}, false
	}
	return b, ok
}

func (r *MemoryCartRepository) Load(ctx context.Context, sessionID string) (*cart.Snapshot, error) {
	r.mu.Lock()
	b, ok := r.lookup(sessionID)
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}

	snap, err := cart.Decode(b.data)
	if err != nil {
		return nil, err
	}
	snap.Revision = b.revision
	return &snap, nil
}

func (r *MemoryCartRepository) Save(ctx context.Context, sessionID string, snap cart.Snapshot, expected int64) error {
	data, err := cart.Encode(snap)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune()
	current, _ := r.lookup(sessionID)
	if current.revision != expected {
		return ErrCartConflict
	}

	b := memoryBlob{data: data, revision: snap.Revision}
	if r.ttl > 0 {
		b.expiresAt = r.now().Add(r.ttl)
	}
	r.blobs[sessionID] = b
	return nil
}

// prune must be called with r.mu held.
func (r *MemoryCartRepository) prune() {
	for id, b := range r.blobs {
		if r.expired(b) {
			delete(r.blobs, id)
		}
	}
}

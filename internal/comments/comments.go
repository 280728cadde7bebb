// Package comments stores page comments in PostgreSQL and streams new ones
// to subscribers through LISTEN/NOTIFY.
package comments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/lebenslauf/internal/logging"
)

// Channel is the NOTIFY channel carrying inserted comments as JSON.
const Channel = "comments_inserted"

// Defaults for List.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Comment is one comment on a page.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Page      string    `json:"page" validate:"required,max=200"`
	Author    string    `json:"author" validate:"required,max=80"`
	Body      string    `json:"body" validate:"required,max=2000"`
	CreatedAt time.Time `json:"created_at"`
}

var validate = validator.New()

// Validate checks the user-supplied fields after trimming them.
func (c *Comment) Validate() error {
	c.Page = strings.TrimSpace(c.Page)
	c.Author = strings.TrimSpace(c.Author)
	c.Body = strings.TrimSpace(c.Body)
	return validate.Struct(c)
}

// Store wraps a PostgreSQL connection pool. All subscribers share one
// LISTEN connection, started on the first Subscribe.
type Store struct {
	pool   *pgxpool.Pool
	log    logging.Logger
	events *broker

	listenMu  sync.Mutex
	listening bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string, log logging.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		pool:   pool,
		log:    log.With("component", "comments"),
		events: newBroker(subscriberBuffer),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Close stops the listener, ends every subscription and closes the pool.
func (s *Store) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	if s.events != nil {
		s.events.closeAll()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

// Insert validates and stores c, then notifies subscribers in the same
// transaction.
func (s *Store) Insert(ctx context.Context, c Comment) (*Comment, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.ID = uuid.New()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO comments (id, page, author, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		c.ID, c.Page, c.Author, c.Body,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal comment: %w", err)
	}
	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, Channel, string(payload)); err != nil {
		return nil, fmt.Errorf("failed to notify: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit comment: %w", err)
	}
	return &c, nil
}

// List returns the newest comments of a page, newest first.
func (s *Store) List(ctx context.Context, page string, limit int) ([]Comment, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	rows, err := s.pool.Query(ctx,
		`SELECT id, page, author, body, created_at
		 FROM comments
		 WHERE page = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		page, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Comment, error) {
		var c Comment
		err := row.Scan(&c.ID, &c.Page, &c.Author, &c.Body, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan comments: %w", err)
	}
	return out, nil
}

// Subscribe streams comments inserted after the call. The channel is
// closed when ctx ends, the store closes or the listener connection fails.
func (s *Store) Subscribe(ctx context.Context) (<-chan Comment, error) {
	s.listenMu.Lock()
	if err := s.startListenerLocked(ctx); err != nil {
		s.listenMu.Unlock()
		return nil, err
	}
	ch, unsubscribe := s.events.subscribe()
	s.listenMu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.ctx.Done():
		}
		unsubscribe()
	}()
	return ch, nil
}

// startListenerLocked acquires the shared LISTEN connection unless it is
// already running. The caller holds listenMu.
func (s *Store) startListenerLocked(ctx context.Context) error {
	if s.listening {
		return nil
	}
	if s.ctx.Err() != nil {
		return errors.New("comment store is closed")
	}
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{Channel}.Sanitize()); err != nil {
		conn.Release()
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listening = true
	s.wg.Add(1)
	go s.listen(conn)
	return nil
}

func (s *Store) listen(conn *pgxpool.Conn) {
	defer s.wg.Done()
	defer conn.Release()
	// The session keeps LISTEN state; drop it before the pool reuses it.
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = conn.Exec(ctx, "UNLISTEN *")
	}()

	for {
		n, err := conn.Conn().WaitForNotification(s.ctx)
		if err != nil {
			if s.ctx.Err() == nil {
				s.log.Warn(s.ctx, "comment listener stopped", "error", err, "subscribers", s.events.count())
			}
			s.listenMu.Lock()
			s.listening = false
			s.events.closeAll()
			s.listenMu.Unlock()
			return
		}
		c, err := decodeNotification(n.Payload)
		if err != nil {
			s.log.Warn(s.ctx, "ignoring malformed notification", "error", err)
			continue
		}
		if dropped := s.events.publish(c); dropped > 0 {
			s.log.Warn(s.ctx, "slow subscribers missed a comment", "comment_id", c.ID, "dropped", dropped)
		}
	}
}

func decodeNotification(payload string) (Comment, error) {
	var c Comment
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Comment{}, err
	}
	if c.ID == uuid.Nil {
		return Comment{}, errors.New("notification without id")
	}
	return c, nil
}

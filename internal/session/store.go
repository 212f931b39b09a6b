// internal/session/store.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"texthunter-back/internal/logger"
)

// CookieName is the cookie that carries the opaque session id.
const CookieName = "texthunter_session"

var ErrNotFound = errors.New("session not found")

// Data is the server-side state behind one session id. The session cookie
// only ever carries the opaque id; everything here stays in the store.
type Data struct {
	UserID             uint
	FullName           string
	Email              string
	DarkMode           bool
	EmailNotifications bool
}

type Store interface {
	Create(ctx context.Context, data Data) (string, error)
	Get(ctx context.Context, id string) (Data, error)
	Update(ctx context.Context, id string, data Data) error
	SetFlags(ctx context.Context, id string, darkMode, emailNotifications bool) error
	// Touch pushes the idle expiry forward without changing session state.
	Touch(ctx context.Context, id string) error
	Destroy(ctx context.Context, id string) error
}

type redisStore struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewRedisStore connects to redis and verifies the connection before
// returning. ttl is the idle timeout applied to every session key.
func NewRedisStore(addr string, ttl time.Duration, log *logger.Logger) (Store, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisStore{
		rdb: rdb,
		ttl: ttl,
		log: log.With("component", "session_store"),
	}, nil
}

func sessionKey(id string) string { return "session:" + id }

func (s *redisStore) Create(ctx context.Context, data Data) (string, error) {
	id := uuid.New().String()
	if err := s.write(ctx, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (Data, error) {
	fields, err := s.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return Data{}, fmt.Errorf("session get: %w", err)
	}
	if len(fields) == 0 {
		return Data{}, ErrNotFound
	}

	userID, err := strconv.ParseUint(fields["user_id"], 10, 64)
	if err != nil {
		return Data{}, fmt.Errorf("session %s has bad user_id %q", id, fields["user_id"])
	}

	return Data{
		UserID:             uint(userID),
		FullName:           fields["full_name"],
		Email:              fields["email"],
		DarkMode:           fields["dark_mode"] == "true",
		EmailNotifications: fields["email_notifications"] == "true",
	}, nil
}

func (s *redisStore) Update(ctx context.Context, id string, data Data) error {
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	return s.write(ctx, id, data)
}

func (s *redisStore) SetFlags(ctx context.Context, id string, darkMode, emailNotifications bool) error {
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	key := sessionKey(id)
	if err := s.rdb.HSet(ctx, key,
		"dark_mode", strconv.FormatBool(darkMode),
		"email_notifications", strconv.FormatBool(emailNotifications),
	).Err(); err != nil {
		return fmt.Errorf("session set flags: %w", err)
	}
	return s.rdb.Expire(ctx, key, s.ttl).Err()
}

func (s *redisStore) Touch(ctx context.Context, id string) error {
	ok, err := s.rdb.Expire(ctx, sessionKey(id), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("session touch: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *redisStore) Destroy(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}

func (s *redisStore) exists(ctx context.Context, id string) error {
	n, err := s.rdb.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("session exists: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *redisStore) write(ctx context.Context, id string, data Data) error {
	key := sessionKey(id)
	if err := s.rdb.HSet(ctx, key,
		"user_id", strconv.FormatUint(uint64(data.UserID), 10),
		"full_name", data.FullName,
		"email", data.Email,
		"dark_mode", strconv.FormatBool(data.DarkMode),
		"email_notifications", strconv.FormatBool(data.EmailNotifications),
	).Err(); err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	return s.rdb.Expire(ctx, key, s.ttl).Err()
}

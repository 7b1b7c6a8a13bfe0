package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	redisUserSeqKey = "shareit:user:seq"
	redisUsersKey   = "shareit:users"
)

func redisUserKey(id int64) string {
	return fmt.Sprintf("shareit:user:%d", id)
}

func redisEmailKey(email string) string {
	return "shareit:user:email:" + email
}

// NewRedisClient builds a client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// RedisUserRepository stores each user as a hash and reserves emails with
// SETNX so two registrations of one address cannot both succeed.
type RedisUserRepository struct {
	client *redis.Client
}

func NewRedisUserRepository(client *redis.Client) *RedisUserRepository {
	return &RedisUserRepository{client: client}
}

func (r *RedisUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	id, err := r.client.Incr(ctx, redisUserSeqKey).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate user id: %w", err)
	}

	reserved, err := r.client.SetNX(ctx, redisEmailKey(user.Email), id, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve email: %w", err)
	}
	if !reserved {
		return fmt.Errorf("%w: email %s is already registered", domain.ErrConflict, user.Email)
	}

	user.ID = id
	if err := r.save(ctx, user); err != nil {
		r.client.Del(ctx, redisEmailKey(user.Email))
		return err
	}
	return nil
}

func (r *RedisUserRepository) save(ctx context.Context, user *models.User) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisUserKey(user.ID), "id", user.ID, "name", user.Name, "email", user.Email)
		pipe.ZAdd(ctx, redisUsersKey, redis.Z{Score: float64(user.ID), Member: user.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save user in redis: %w", err)
	}
	return nil
}

func (r *RedisUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	cmd := r.client.HGetAll(ctx, redisUserKey(id))
	fields, err := cmd.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user from redis: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}

	var user models.User
	if err := cmd.Scan(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %d: %w", id, err)
	}
	return &user, nil
}

func (r *RedisUserRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	members, err := r.client.ZRange(ctx, redisUsersKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*models.User, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt user index entry %q: %w", m, err)
		}
		user, err := r.GetUserByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *RedisUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	current, err := r.GetUserByID(ctx, user.ID)
	if err != nil {
		return err
	}

	if current.Email != user.Email {
		reserved, err := r.client.SetNX(ctx, redisEmailKey(user.Email), user.ID, 0).Result()
		if err != nil {
			return fmt.Errorf("failed to reserve email: %w", err)
		}
		if !reserved {
			return fmt.Errorf("%w: email %s is already registered", domain.ErrConflict, user.Email)
		}
		if err := r.client.Del(ctx, redisEmailKey(current.Email)).Err(); err != nil {
			r.client.Del(ctx, redisEmailKey(user.Email))
			return fmt.Errorf("failed to release email: %w", err)
		}
	}

	if err := r.save(ctx, user); err != nil {
		if current.Email != user.Email {
			r.client.Del(ctx, redisEmailKey(user.Email))
			r.client.SetNX(ctx, redisEmailKey(current.Email), user.ID, 0)
		}
		return err
	}
	return nil
}

func (r *RedisUserRepository) DeleteUser(ctx context.Context, id int64) error {
	current, err := r.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisUserKey(id), redisEmailKey(current.Email))
		pipe.ZRem(ctx, redisUsersKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete user from redis: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}

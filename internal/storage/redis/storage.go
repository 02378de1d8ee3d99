package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) playerScriptKeys(id model.PlayerID) []string {
	return []string{playerKey(id), playerIndexKey()}
}

func (s *Storage) playerScriptArgs(id model.PlayerID, now time.Time, extra ...any) []any {
	args := []any{string(id), model.UnknownPlayerName, now.UTC().Format(time.RFC3339Nano)}
	return append(args, extra...)
}

func (s *Storage) EnsurePlayer(ctx context.Context, id model.PlayerID, name string, now time.Time) error {
	return ensurePlayerScript.Run(ctx, s.client,
		s.playerScriptKeys(id),
		s.playerScriptArgs(id, now, name)...,
	).Err()
}

func (s *Storage) SetOnline(ctx context.Context, id model.PlayerID, online bool, sessionID string, now time.Time) error {
	flag := "0"
	if online {
		flag = "1"
	}
	return setOnlineScript.Run(ctx, s.client,
		s.playerScriptKeys(id),
		s.playerScriptArgs(id, now, flag, sessionID)...,
	).Err()
}

func (s *Storage) AddScore(ctx context.Context, id model.PlayerID, delta int, now time.Time) (int, error) {
	score, err := addScoreScript.Run(ctx, s.client,
		s.playerScriptKeys(id),
		s.playerScriptArgs(id, now, strconv.Itoa(delta))...,
	).Int()
	if err != nil {
		return 0, err
	}
	return score, nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerState, error) {
	fields, err := s.client.HGetAll(ctx, playerKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return playerFromHash(fields)
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerState, error) {
	ids, err := s.client.SMembers(ctx, playerIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.PlayerState{}, nil
	}

	// Fetch all hashes in one round trip
	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, playerKey(model.PlayerID(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	players := make([]*model.PlayerState, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		player, err := playerFromHash(fields)
		if err != nil {
			continue // Skip invalid data
		}
		players = append(players, player)
	}

	return players, nil
}

// playerFromHash decodes a player hash written by the scripts
func playerFromHash(fields map[string]string) (*model.PlayerState, error) {
	score, err := strconv.Atoi(fields["score"])
	if err != nil {
		return nil, fmt.Errorf("decode score for player %s: %w", fields["id"], err)
	}

	player := &model.PlayerState{
		ID:        model.PlayerID(fields["id"]),
		Name:      fields["name"],
		Score:     score,
		IsOnline:  fields["online"] == "1",
		SessionID: fields["session"],
	}

	if ts := fields["last_seen"]; ts != "" {
		lastSeen, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("decode last_seen for player %s: %w", player.ID, err)
		}
		player.LastSeen = lastSeen
	}

	return player, nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	hasEmail := "0"
	if account.Email != "" {
		hasEmail = "1"
	}

	created, err := createAccountScript.Run(ctx, s.client,
		[]string{accountKey(account.ID), loginIndexKey(account.Username), loginIndexKey(account.Email)},
		string(account.ID), string(data), hasEmail,
	).Int()
	if err != nil {
		return err
	}
	if created == 0 {
		return model.ErrAccountExists
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByLogin(ctx context.Context, usernameOrEmail string) (*model.Account, error) {
	// Look up account ID from the login index
	id, err := s.client.Get(ctx, loginIndexKey(usernameOrEmail)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.PlayerID(id))
}

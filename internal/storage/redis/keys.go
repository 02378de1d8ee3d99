package redis

import (
	"fmt"
	"strings"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "rps"

// playerKey returns the Redis key for a player's state hash
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playerIndexKey returns the Redis key for the SET of all known player IDs
func playerIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// accountKey returns the Redis key for an Account
func accountKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// loginIndexKey returns the Redis key for the username/email -> account id index
func loginIndexKey(login string) string {
	return fmt.Sprintf("%s:idx:login:%s", keyPrefix, strings.ToLower(login))
}

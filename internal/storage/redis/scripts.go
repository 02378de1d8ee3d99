package redis

import "github.com/redis/go-redis/v9"

// Each player mutation runs as a single script so Redis applies the
// read-modify-write atomically per player.
//
// Common layout: KEYS[1] player hash, KEYS[2] player index set,
// ARGV[1] player id, ARGV[2] sentinel name, ARGV[3] timestamp.

const createPlayerIfMissing = `
if redis.call('EXISTS', KEYS[1]) == 0 then
  redis.call('HSET', KEYS[1], 'id', ARGV[1], 'name', ARGV[2], 'score', '0',
    'online', '0', 'session', '', 'last_seen', ARGV[3])
  redis.call('SADD', KEYS[2], ARGV[1])
end
`

// ARGV[4] requested name
var ensurePlayerScript = redis.NewScript(createPlayerIfMissing + `
if ARGV[4] ~= '' and redis.call('HGET', KEYS[1], 'name') == ARGV[2] then
  redis.call('HSET', KEYS[1], 'name', ARGV[4])
end
return 1
`)

// ARGV[4] online flag ("1"/"0"), ARGV[5] session id
var setOnlineScript = redis.NewScript(createPlayerIfMissing + `
redis.call('HSET', KEYS[1], 'online', ARGV[4], 'session', ARGV[5], 'last_seen', ARGV[3])
return 1
`)

// ARGV[4] score delta
var addScoreScript = redis.NewScript(createPlayerIfMissing + `
local score = redis.call('HINCRBY', KEYS[1], 'score', ARGV[4])
if score < 0 then
  score = 0
  redis.call('HSET', KEYS[1], 'score', '0')
end
redis.call('HSET', KEYS[1], 'last_seen', ARGV[3])
return score
`)

// KEYS[1] account key, KEYS[2] username index, KEYS[3] email index
// ARGV[1] account id, ARGV[2] account JSON, ARGV[3] "1" if an email is set
var createAccountScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
  return 0
end
if ARGV[3] == '1' and redis.call('EXISTS', KEYS[3]) == 1 then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2])
redis.call('SET', KEYS[2], ARGV[1])
if ARGV[3] == '1' then
  redis.call('SET', KEYS[3], ARGV[1])
end
return 1
`)

package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"golunesbridge/config"
	"golunesbridge/types"
)

func timeoutDialOptions() []redis.DialOption {
	return []redis.DialOption{
		redis.DialConnectTimeout(5 * time.Second),
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
	}
}

// Store mirrors bridge transactions locally, keyed into per-status sets,
// and rolls up monthly bridged volume. Records are never deleted, only
// moved between status sets; retention is the bridge service's problem.
type Store struct {
	pool *redis.Pool
}

func NewStore() *Store {
	redisAddr := fmt.Sprintf("%s:%d", config.Config.Server.RedisHost, config.Config.Server.RedisPort)
	return &Store{
		pool: &redis.Pool{
			MaxIdle: 5,
			Dial:    func() (redis.Conn, error) { return redis.Dial("tcp", redisAddr, timeoutDialOptions()...) },
		},
	}
}

func recordKey(status types.TxStatus, id string) string {
	return fmt.Sprintf("bridgetx:%s:%s", status, id)
}

func (s *Store) SaveTransaction(tx *types.BridgeTransaction) error {
	conn := s.pool.Get()
	defer conn.Close()

	if tx == nil {
		return errors.New("null object to store")
	}

	if !tx.Status.Valid() {
		return errors.New("bridge transaction cannot have empty status")
	}

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	key := recordKey(tx.Status, tx.ID)

	txJSON, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("cannot marshal bridge transaction to JSON: %s", err.Error())
	}

	_, err = conn.Do("SET", key, txJSON)
	if err != nil {
		log.Printf("error Redis SET: %s", err.Error())
		return err
	}

	// also add the key to the corresponding SET
	_, err = conn.Do("SADD", config.RedisStatusSets[string(tx.Status)], key)
	if err != nil {
		log.Printf("error Redis SADD: %s", err.Error())
		return err
	}

	return nil
}

func (s *Store) ChangeTransactionStatus(tx *types.BridgeTransaction, prev types.TxStatus) error {
	conn := s.pool.Get()
	defer conn.Close()

	if tx == nil {
		return errors.New("null object to store")
	}

	if !tx.Status.Valid() {
		return errors.New("bridge transaction cannot have empty status")
	}

	prevKey := recordKey(prev, tx.ID)
	key := recordKey(tx.Status, tx.ID)

	txJSON, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("cannot marshal bridge transaction to JSON: %s", err.Error())
	}

	_, err = conn.Do("SREM", config.RedisStatusSets[string(prev)], prevKey)
	if err != nil {
		log.Printf("error Redis SREM: %s", err.Error())
		return err
	}

	_, err = conn.Do("DEL", prevKey)
	if err != nil {
		log.Printf("error Redis DEL: %s", err.Error())
		return err
	}

	_, err = conn.Do("SET", key, txJSON)
	if err != nil {
		log.Printf("error Redis SET: %s", err.Error())
		return err
	}

	_, err = conn.Do("SADD", config.RedisStatusSets[string(tx.Status)], key)
	if err != nil {
		log.Printf("error Redis SADD: %s", err.Error())
		return err
	}

	return nil
}

func (s *Store) FindTransactionByID(id string) (*types.BridgeTransaction, error) {
	conn := s.pool.Get()
	defer conn.Close()

	for status := range config.RedisStatusSets {
		raw, err := redis.Bytes(conn.Do("GET", recordKey(types.TxStatus(status), id)))
		if errors.Is(err, redis.ErrNil) {
			continue
		}
		if err != nil {
			log.Printf("error Redis GET: %s", err.Error())
			return nil, err
		}

		var tx types.BridgeTransaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			return nil, err
		}
		return &tx, nil
	}

	return nil, nil
}

// FindAllTransactionsByStatus scans the whole status set; processed records
// accumulate, so listings stay O(n) over everything mirrored.
func (s *Store) FindAllTransactionsByStatus(status types.TxStatus) ([]*types.BridgeTransaction, error) {
	conn := s.pool.Get()
	defer conn.Close()

	setKey, ok := config.RedisStatusSets[string(status)]
	if !ok {
		return nil, errors.New("redis key not found for status")
	}

	txs := make([]*types.BridgeTransaction, 0)

	var cursor int64

	for {
		values, err := redis.Values(conn.Do("SSCAN", setKey, cursor))
		if err != nil {
			return nil, err
		}

		var keys []string
		values, err = redis.Scan(values, &cursor, &keys)
		if err != nil {
			return nil, err
		}

		for _, key := range keys {
			raw, err := redis.Bytes(conn.Do("GET", key))
			if errors.Is(err, redis.ErrNil) {
				// record moved between SSCAN and GET
				continue
			}
			if err != nil {
				log.Printf("error Redis GET: %s", err.Error())
				return nil, err
			}

			var tx types.BridgeTransaction
			if err := json.Unmarshal(raw, &tx); err != nil {
				return nil, err
			}
			if tx.Status == status {
				txs = append(txs, &tx)
			}
		}

		if cursor == 0 {
			break
		}
	}

	return txs, nil
}

func monthlyVolumeKey(now time.Time) string {
	return fmt.Sprintf("volume:usd:%s", now.Format("2006-01"))
}

// AddMonthlyVolumeUsd rolls bridged amounts into the current month's
// aggregate, the fallback volume source when the chain query fails.
func (s *Store) AddMonthlyVolumeUsd(amount decimal.Decimal) error {
	conn := s.pool.Get()
	defer conn.Close()

	amountFloat, _ := amount.Float64()
	_, err := conn.Do("INCRBYFLOAT", monthlyVolumeKey(time.Now()), amountFloat)
	if err != nil {
		log.Printf("error Redis INCRBYFLOAT: %s", err.Error())
		return err
	}

	return nil
}

func (s *Store) GetMonthlyVolumeUsd() (decimal.Decimal, error) {
	conn := s.pool.Get()
	defer conn.Close()

	raw, err := redis.String(conn.Do("GET", monthlyVolumeKey(time.Now())))
	if errors.Is(err, redis.ErrNil) {
		return decimal.Zero, nil
	}
	if err != nil {
		log.Printf("error Redis GET: %s", err.Error())
		return decimal.Zero, err
	}

	return decimal.NewFromString(raw)
}

package pagemanager

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"sync/atomic"

	"github.com/bokwoon95/pagemanager/pagemanager/erro"
	"github.com/dgraph-io/ristretto"
	"github.com/pelletier/go-toml"
)

const configKey = "configKey\x00"

var ErrInvalidConfigKey = errors.New("pagemanager: config namespace and key must not be empty")

// Config is a namespaced key/value store kept in the pm_config table. Reads go
// through a ristretto cache. Every write bumps a generation number that is part
// of the cache key, so a read never sees a value cached before the write.
type Config struct {
	db         *sql.DB
	cache      *ristretto.Cache
	generation uint64
}

func NewConfig(db *sql.DB) (*Config, error) {
	var err error
	c := &Config{db: db}
	_, err = db.Exec(ddlPMConfig)
	if err != nil {
		return c, erro.Wrapf(err, "creating %s", pm_config)
	}
	c.cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,     // number of keys to track frequency of (100k).
		MaxCost:     1 << 20, // maximum cost of cache (1MB).
		BufferItems: 64,      // number of keys per Get buffer.
	})
	if err != nil {
		return c, erro.Wrap(err)
	}
	return c, nil
}

// Get returns the value for namespace.key, or "" if it is not set.
func (c *Config) Get(namespace, key string) (string, error) {
	cacheKey := c.cacheKey(namespace, key)
	if value, ok := c.cache.Get(cacheKey); ok {
		if value, ok := value.(string); ok {
			return value, nil
		}
		c.cache.Del(cacheKey)
	}
	var value sql.NullString
	err := c.db.QueryRow(queryPMConfigValue, namespace, key).Scan(&value)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", erro.Wrapf(err, "reading %s.%s", namespace, key)
	}
	c.cache.Set(cacheKey, value.String, int64(len(value.String))+1)
	return value.String, nil
}

func (c *Config) Set(namespace, key, value string) error {
	if namespace == "" || key == "" {
		return ErrInvalidConfigKey
	}
	_, err := c.db.Exec(upsertPMConfig, namespace, key, value)
	if err != nil {
		return erro.Wrapf(err, "writing %s.%s", namespace, key)
	}
	atomic.AddUint64(&c.generation, 1)
	return nil
}

// Seed inserts values for keys that are not set yet. Existing values are left
// alone so that edits made at runtime survive a restart.
func (c *Config) Seed(values map[string]map[string]string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return erro.Wrap(err)
	}
	defer tx.Rollback()
	for namespace, entries := range values {
		for key, value := range entries {
			if namespace == "" || key == "" {
				return ErrInvalidConfigKey
			}
			_, err = tx.Exec(seedPMConfig, namespace, key, value)
			if err != nil {
				return erro.Wrapf(err, "seeding %s.%s", namespace, key)
			}
		}
	}
	err = tx.Commit()
	if err != nil {
		return erro.Wrap(err)
	}
	atomic.AddUint64(&c.generation, 1)
	return nil
}

// SeedFromTOML seeds the store from a TOML file in fsys. Every top level table
// is a namespace:
//
//	[application]
//	title = "My Site"
//	theme = "plainsimple"
func (c *Config) SeedFromTOML(fsys fs.FS, name string) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return erro.Wrap(err)
	}
	tree, err := toml.LoadBytes(b)
	if err != nil {
		return erro.Wrapf(err, "parsing %s", name)
	}
	values := make(map[string]map[string]string)
	for _, namespace := range tree.Keys() {
		table, ok := tree.GetPath([]string{namespace}).(*toml.Tree)
		if !ok {
			return fmt.Errorf("%s: %s is not a table", name, namespace)
		}
		values[namespace] = make(map[string]string)
		for _, key := range table.Keys() {
			values[namespace][key] = fmt.Sprint(table.GetPath([]string{key}))
		}
	}
	return c.Seed(values)
}

func (c *Config) Close() {
	c.cache.Close()
}

func (c *Config) cacheKey(namespace, key string) string {
	generation := atomic.LoadUint64(&c.generation)
	return configKey + strconv.FormatUint(generation, 10) + "\x00" + namespace + "\x00" + key
}

package cache

import (
	"errors"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/sirupsen/logrus"
)

const feedTTL = 60 // seconds

// Memcached holds rendered feeds for a minute via a memcached daemon.
type Memcached struct {
	client *memcache.Client
}

func NewMemcached(addr string) *Memcached {
	return &Memcached{client: memcache.New(addr)}
}

func (c *Memcached) Get(key string) ([]byte, bool) {
	item, err := c.client.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			logrus.WithError(err).WithField("key", key).Debugln("Memcached get failed.")
		}
		return nil, false
	}
	return item.Value, true
}

func (c *Memcached) Set(key string, value []byte) {
	err := c.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: feedTTL,
	})
	if err != nil {
		logrus.WithError(err).WithField("key", key).Debugln("Memcached set failed.")
	}
}

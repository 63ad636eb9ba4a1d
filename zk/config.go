package zk

import (
	"time"
)

type Config struct {
	ZkAddrs string // comma separated host:port of the zookeeper ensemble
	Timeout time.Duration
}

func DefaultConfig(addrs string) *Config {
	return &Config{
		ZkAddrs: addrs,
		Timeout: time.Second * 30,
	}
}

package zk

import (
	"testing"
	"time"

	"github.com/funkygao/assert"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig("z1:2181,z2:2181")
	assert.Equal(t, "z1:2181,z2:2181", c.ZkAddrs)
	assert.Equal(t, time.Second*30, c.Timeout)
}

func TestZkAddrList(t *testing.T) {
	zc := New(DefaultConfig("z1:2181,z2:2181,z3:2181"))
	assert.Equal(t, []string{"z1:2181", "z2:2181", "z3:2181"}, zc.ZkAddrList())
	assert.Equal(t, "z1:2181,z2:2181,z3:2181", zc.ZkAddrs())
}

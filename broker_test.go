package brokermap

import (
	"testing"
	"time"

	"github.com/funkygao/assert"
	"github.com/samuel/go-zookeeper/zk"
)

func TestParseBrokerZnode(t *testing.T) {
	host, port, err := parseBrokerZnode("7:10.0.0.5:9092")
	assert.Equal(t, nil, err)
	assert.Equal(t, "10.0.0.5", host)
	assert.Equal(t, 9092, port)

	// creator field is opaque, not necessarily the broker id
	host, port, err = parseBrokerZnode("k1.test.local-1398721746988:k1.test.local:9092")
	assert.Equal(t, nil, err)
	assert.Equal(t, "k1.test.local", host)
	assert.Equal(t, 9092, port)

	for _, junk := range []string{
		"",
		"host:9092",
		"creator:host:port:extra",
		"creator:host:notaport",
	} {
		_, _, err = parseBrokerZnode(junk)
		assert.Equal(t, ErrInvalidBrokerZnode, err)
	}
}

func TestBrokerLazyConfigure(t *testing.T) {
	path := brokerPath(BrokerIdsPath, 7)

	fz := newFakeZk()
	fz.setData(path, "7:10.0.0.5:9092")

	b := newBroker(fz, BrokerIdsPath, 7, newMapMetrics())
	defer b.shutdown()

	assert.Equal(t, 7, b.Id())
	assert.Equal(t, 0, fz.dataFetchCount(path))
	assert.Equal(t, "{broker[7] unconfigured}", b.String())

	host, err := b.Host()
	assert.Equal(t, nil, err)
	assert.Equal(t, "10.0.0.5", host)
	assert.Equal(t, 1, fz.dataFetchCount(path))

	port, err := b.Port()
	assert.Equal(t, nil, err)
	assert.Equal(t, 9092, port)
	addr, err := b.Addr()
	assert.Equal(t, nil, err)
	assert.Equal(t, "10.0.0.5:9092", addr)
	assert.Equal(t, "{broker[7] 10.0.0.5:9092}", b.String())
	assert.Equal(t, 1, fz.dataFetchCount(path))
}

func TestBrokerZnodeMissing(t *testing.T) {
	fz := newFakeZk()

	b := newBroker(fz, BrokerIdsPath, 7, newMapMetrics())
	defer b.shutdown()

	_, err := b.Host()
	assert.Equal(t, zk.ErrNoNode, err)
	assert.Equal(t, ConfigUnconfigured, b.State())
}

func TestBrokerDataRefreshInPlace(t *testing.T) {
	path := brokerPath(BrokerIdsPath, 7)

	fz := newFakeZk()
	fz.setData(path, "7:10.0.0.5:9092")

	b := newBroker(fz, BrokerIdsPath, 7, newMapMetrics())
	defer b.shutdown()

	addr, err := b.Addr()
	assert.Equal(t, nil, err)
	assert.Equal(t, "10.0.0.5:9092", addr)

	// broker re-registers on a new endpoint, the record follows in place
	fz.setData(path, "7:10.0.0.9:9093")
	waitFor(t, time.Second*2, func() bool {
		addr, _ := b.Addr()
		return addr == "10.0.0.9:9093"
	})

	assert.Equal(t, false, b.IsDead())
}

func TestBrokerJunkDataKeepsLastGood(t *testing.T) {
	path := brokerPath(BrokerIdsPath, 7)

	fz := newFakeZk()
	fz.setData(path, "7:10.0.0.5:9092")

	b := newBroker(fz, BrokerIdsPath, 7, newMapMetrics())
	defer b.shutdown()

	addr, err := b.Addr()
	assert.Equal(t, nil, err)
	assert.Equal(t, "10.0.0.5:9092", addr)

	// a junk registration must not wipe the last known good endpoint
	fz.setData(path, "garbage")
	time.Sleep(refreshBackoff * 2)
	addr, err = b.Addr()
	assert.Equal(t, nil, err)
	assert.Equal(t, "10.0.0.5:9092", addr)

	// and once the znode is sane again the retry loop picks it up
	fz.setData(path, "7:10.0.0.6:9092")
	waitFor(t, time.Second*2, func() bool {
		addr, _ := b.Addr()
		return addr == "10.0.0.6:9092"
	})
}

func TestBrokerZnodeDeletedKeepsLastGood(t *testing.T) {
	path := brokerPath(BrokerIdsPath, 7)

	fz := newFakeZk()
	fz.setData(path, "7:10.0.0.5:9092")

	b := newBroker(fz, BrokerIdsPath, 7, newMapMetrics())
	defer b.shutdown()

	addr, err := b.Addr()
	assert.Equal(t, nil, err)
	assert.Equal(t, "10.0.0.5:9092", addr)

	// the registration znode vanishes, refresh fetches fail and the last
	// known good endpoint keeps serving
	fz.deleteNode(path)
	time.Sleep(refreshBackoff * 2)
	addr, err = b.Addr()
	assert.Equal(t, nil, err)
	assert.Equal(t, "10.0.0.5:9092", addr)

	// the broker re-registers, the retry loop picks it up
	fz.setData(path, "7:10.0.0.6:9092")
	waitFor(t, time.Second*2, func() bool {
		addr, _ := b.Addr()
		return addr == "10.0.0.6:9092"
	})
}

func TestBrokerMarkDeadStopsRefresh(t *testing.T) {
	path := brokerPath(BrokerIdsPath, 7)

	fz := newFakeZk()
	fz.setData(path, "7:10.0.0.5:9092")

	b := newBroker(fz, BrokerIdsPath, 7, newMapMetrics())

	addr, err := b.Addr()
	assert.Equal(t, nil, err)

	b.markDead()
	assert.Equal(t, true, b.IsDead())

	// a dead record still answers from its last applied state
	addr, err = b.Addr()
	assert.Equal(t, nil, err)
	assert.Equal(t, "10.0.0.5:9092", addr)

	// but never follows the znode again
	fz.setData(path, "7:10.0.0.9:9093")
	time.Sleep(refreshBackoff * 2)
	addr, _ = b.Addr()
	assert.Equal(t, "10.0.0.5:9092", addr)
}

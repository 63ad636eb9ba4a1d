package brokermap

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Shopify/sarama"
	log "github.com/funkygao/log4go"
	"github.com/samuel/go-zookeeper/zk"
)

// backoff before retrying a failed watch-triggered refresh
var refreshBackoff = time.Second * 2

// Broker is a single kafka broker of the mirrored cluster. Its identity, the
// broker id, is fixed at creation; host and port are populated lazily from
// the broker's znode and refreshed in place whenever the znode changes, so a
// reference handed out once stays valid across refreshes.
//
// Brokers are created and killed exclusively by their owning BrokerMap.
type Broker struct {
	lazyConfig

	coord Coordinator
	path  string
	id    int

	mu      sync.RWMutex
	host    string
	port    int
	dead    bool
	stopped bool

	client sarama.Client
	dial   dialFunc

	watchCh    <-chan zk.Event
	watchOnce  sync.Once
	shutdownCh chan struct{}

	metrics *mapMetrics
}

func newBroker(coord Coordinator, root string, id int, m *mapMetrics) *Broker {
	return &Broker{
		coord:      coord,
		path:       brokerPath(root, id),
		id:         id,
		dial:       dialKafka,
		shutdownCh: make(chan struct{}),
		metrics:    m,
	}
}

// Id never changes for the lifetime of the record.
func (this *Broker) Id() int {
	return this.id
}

// Host blocks on the initial znode fetch if the broker is not yet configured.
func (this *Broker) Host() (string, error) {
	if err := this.ensure(); err != nil {
		return "", err
	}

	this.mu.RLock()
	defer this.mu.RUnlock()
	return this.host, nil
}

// Port blocks on the initial znode fetch if the broker is not yet configured.
func (this *Broker) Port() (int, error) {
	if err := this.ensure(); err != nil {
		return 0, err
	}

	this.mu.RLock()
	defer this.mu.RUnlock()
	return this.port, nil
}

// Addr returns host:port.
func (this *Broker) Addr() (string, error) {
	if err := this.ensure(); err != nil {
		return "", err
	}

	this.mu.RLock()
	defer this.mu.RUnlock()
	return fmt.Sprintf("%s:%d", this.host, this.port), nil
}

// IsDead tells whether the owning BrokerMap has evicted this broker. A dead
// record is never mutated again and never comes back to life.
func (this *Broker) IsDead() bool {
	this.mu.RLock()
	defer this.mu.RUnlock()
	return this.dead
}

func (this *Broker) String() string {
	this.mu.RLock()
	defer this.mu.RUnlock()

	if this.host == "" {
		return fmt.Sprintf("{broker[%d] unconfigured}", this.id)
	}
	return fmt.Sprintf("{broker[%d] %s:%d}", this.id, this.host, this.port)
}

func (this *Broker) ensure() error {
	if err := this.ensureConfigured(this.configure); err != nil {
		return err
	}

	this.watchOnce.Do(func() {
		go this.watchData()
	})
	return nil
}

// configure performs one fetch-and-populate pass against the broker znode
// and, by the very act of fetching, re-arms the one-shot data watch.
func (this *Broker) configure() error {
	data, evt, err := this.coord.GetW(this.path)
	if err != nil {
		return err
	}

	host, port, err := parseBrokerZnode(string(data))
	if err != nil {
		// last known good host/port stay untouched
		log.Error("broker[%d] %s junk data %s: %v", this.id, this.path, string(data), err)
		return err
	}

	this.mu.Lock()
	if this.stopped {
		// lost the race against markDead/shutdown, the record is frozen
		this.mu.Unlock()
		return nil
	}
	if this.client != nil && (this.host != host || this.port != port) {
		// endpoint moved, drop the cached client so the next use dials anew
		log.Warn("broker[%d] moved %s:%d -> %s:%d, cached client dropped",
			this.id, this.host, this.port, host, port)
		this.client.Close()
		this.client = nil
	}
	this.host = host
	this.port = port
	this.watchCh = evt
	this.mu.Unlock()

	log.Trace("broker[%d] configured %s:%d", this.id, host, port)
	return nil
}

// watchData is the per-broker refresh loop: wait on the currently armed
// watch, re-run the configuration pass on delivery. Each pass arms the next
// watch, so a pass that never runs again would silently freeze this record;
// on refresh failure we keep retrying with backoff for that reason.
func (this *Broker) watchData() {
	for {
		this.mu.RLock()
		evt := this.watchCh
		this.mu.RUnlock()

		select {
		case e := <-evt:
			this.metrics.WatchFires.Inc(1)
			log.Trace("broker[%d] watch fired: %+v", this.id, e)

		case <-this.shutdownCh:
			return
		}

		for {
			err := this.reconfigure(this.configure)
			if err == nil {
				break
			}

			this.metrics.RefreshErrs.Inc(1)
			log.Error("broker[%d] refresh %s: %v", this.id, this.path, err)

			select {
			case <-time.After(refreshBackoff):
			case <-this.shutdownCh:
				return
			}
		}
	}
}

func (this *Broker) stopLocked() {
	if !this.stopped {
		this.stopped = true
		close(this.shutdownCh)
	}
}

// markDead is called by the owning BrokerMap when this id vanishes from the
// children list. The record stays a valid, inspectable object for callers
// still holding it, but is never refreshed again. Its cached client, if any,
// is kept: callers discard dead records and close the client themselves.
func (this *Broker) markDead() {
	this.mu.Lock()
	this.dead = true
	this.stopLocked()
	this.mu.Unlock()
}

// shutdown stops the refresh loop and releases the cached client without
// marking the record dead. BrokerMap.Close only.
func (this *Broker) shutdown() {
	this.mu.Lock()
	this.stopLocked()
	if this.client != nil {
		this.client.Close()
		this.client = nil
	}
	this.mu.Unlock()
}

// parseBrokerZnode parses the broker registration value, utf8 text of the
// form creator:host:port. Only host and port are consumed.
func parseBrokerZnode(data string) (string, int, error) {
	tuples := strings.Split(data, ":")
	if len(tuples) != 3 {
		return "", 0, ErrInvalidBrokerZnode
	}

	port, err := strconv.Atoi(tuples[2])
	if err != nil {
		return "", 0, ErrInvalidBrokerZnode
	}

	return tuples[1], port, nil
}

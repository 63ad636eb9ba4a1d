package brokermap

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/funkygao/golib/set"
	log "github.com/funkygao/log4go"
	"github.com/samuel/go-zookeeper/zk"
)

// BrokerMap mirrors the live broker membership of one kafka cluster, i.e.
// the children of its /brokers/ids znode. The mirror configures itself on
// first access, then keeps itself current by re-running the configuration
// pass whenever the armed children watch fires.
//
// Records are mutated in place and never replaced: a *Broker obtained from
// the map observes later refreshes transparently.
type BrokerMap struct {
	lazyConfig

	coord Coordinator
	root  string

	mu      sync.RWMutex
	members map[int]*Broker
	stopped bool

	watchCh    <-chan zk.Event
	watchOnce  sync.Once
	shutdownCh chan struct{}
	closeOnce  sync.Once

	metrics *mapMetrics
}

// New creates a BrokerMap over the brokers registered under root, e.g.
// "/kafka_pub/brokers/ids". Empty root means the chroot-less BrokerIdsPath.
// No fetch happens until the first accessor call.
func New(coord Coordinator, root string) *BrokerMap {
	if root == "" {
		root = BrokerIdsPath
	}

	return &BrokerMap{
		coord:      coord,
		root:       root,
		members:    make(map[int]*Broker),
		shutdownCh: make(chan struct{}),
		metrics:    newMapMetrics(),
	}
}

// Len returns the number of live brokers.
func (this *BrokerMap) Len() (int, error) {
	if err := this.ensure(); err != nil {
		return 0, err
	}

	this.mu.RLock()
	defer this.mu.RUnlock()
	return len(this.members), nil
}

// Ids returns the live broker ids, ascending. The order is a display
// convenience only, the membership itself is unordered.
func (this *BrokerMap) Ids() ([]int, error) {
	if err := this.ensure(); err != nil {
		return nil, err
	}

	this.mu.RLock()
	ids := make([]int, 0, len(this.members))
	for id := range this.members {
		ids = append(ids, id)
	}
	this.mu.RUnlock()

	sort.Ints(ids)
	return ids, nil
}

// Get returns the live broker with the given id, ErrBrokerNotFound if the id
// is not currently a member.
func (this *BrokerMap) Get(id int) (*Broker, error) {
	if err := this.ensure(); err != nil {
		return nil, err
	}

	this.mu.RLock()
	defer this.mu.RUnlock()

	broker, present := this.members[id]
	if !present {
		return nil, ErrBrokerNotFound
	}
	return broker, nil
}

// Brokers returns all live broker records.
func (this *BrokerMap) Brokers() ([]*Broker, error) {
	if err := this.ensure(); err != nil {
		return nil, err
	}

	this.mu.RLock()
	defer this.mu.RUnlock()

	r := make([]*Broker, 0, len(this.members))
	for _, broker := range this.members {
		r = append(r, broker)
	}
	return r, nil
}

// Snapshot returns a copy of the id->broker index. The map is the caller's
// to keep, the records inside are shared and live.
func (this *BrokerMap) Snapshot() (map[int]*Broker, error) {
	if err := this.ensure(); err != nil {
		return nil, err
	}

	this.mu.RLock()
	defer this.mu.RUnlock()

	r := make(map[int]*Broker, len(this.members))
	for id, broker := range this.members {
		r[id] = broker
	}
	return r, nil
}

// BrokerList returns the host:port of every live broker, ready to feed a
// sarama client. Brokers whose znode cannot be read or parsed are skipped:
// one sick broker never poisons the list.
func (this *BrokerMap) BrokerList() ([]string, error) {
	brokers, err := this.Brokers()
	if err != nil {
		return nil, err
	}

	r := make([]string, 0, len(brokers))
	for _, broker := range brokers {
		addr, err := broker.Addr()
		if err != nil {
			log.Warn("broker[%d] excluded from broker list: %v", broker.Id(), err)
			continue
		}
		r = append(r, addr)
	}
	return r, nil
}

// Refresh forces a full configuration pass right now instead of waiting for
// the watch to fire.
func (this *BrokerMap) Refresh() error {
	return this.reconfigure(this.configure)
}

// Close stops the children watch loop and every member's refresh loop and
// releases their cached clients. The mirror is frozen, not emptied: accessors
// keep serving the last applied snapshot.
func (this *BrokerMap) Close() {
	this.closeOnce.Do(func() {
		close(this.shutdownCh)

		this.mu.Lock()
		this.stopped = true
		brokers := make([]*Broker, 0, len(this.members))
		for _, broker := range this.members {
			brokers = append(brokers, broker)
		}
		this.mu.Unlock()

		for _, broker := range brokers {
			broker.shutdown()
		}
	})
}

func (this *BrokerMap) ensure() error {
	if err := this.ensureConfigured(this.configure); err != nil {
		return err
	}

	this.watchOnce.Do(func() {
		go this.watchChildren()
	})
	return nil
}

// configure fetches one consistent snapshot of the children under root,
// arms the next one-shot watch, and applies the membership diff atomically:
// unknown ids become fresh lazy records, vanished ids are marked dead and
// evicted in the same pass.
func (this *BrokerMap) configure() error {
	this.metrics.Refreshes.Mark(1)

	children, evt, err := this.coord.ChildrenW(this.root)
	if err != nil {
		if err == zk.ErrNoNode {
			return ErrClusterNotInitialized
		}
		return err
	}

	ids := make([]int, 0, len(children))
	for _, child := range children {
		id, err := strconv.Atoi(child)
		if err != nil {
			log.Warn("%s holds non-numeric child %s, ignored", this.root, child)
			continue
		}
		ids = append(ids, id)
	}

	this.mu.Lock()
	defer this.mu.Unlock()

	if this.stopped {
		// Close won the race, keep the frozen snapshot untouched
		return nil
	}

	setOld, setNew := set.NewSet(), set.NewSet()
	for id := range this.members {
		setOld.Add(id)
	}
	alive := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		setNew.Add(id)
		alive[id] = struct{}{}
	}

	if !setOld.Equal(setNew) {
		for _, id := range ids {
			if _, present := this.members[id]; !present {
				// membership only: the record fetches its own znode lazily
				this.members[id] = newBroker(this.coord, this.root, id, this.metrics)
				this.metrics.BrokersAdded.Inc(1)
				log.Info("broker[%d] joined %s", id, this.root)
			}
		}

		for id, broker := range this.members {
			if _, present := alive[id]; !present {
				broker.markDead()
				delete(this.members, id)
				this.metrics.BrokersKilled.Inc(1)
				log.Info("broker[%d] left %s", id, this.root)
			}
		}
	}

	this.watchCh = evt
	return nil
}

// watchChildren keeps the mirror warm: wait on the armed children watch,
// re-run the configuration pass on delivery. The pass arms the next watch;
// after a failed pass we retry with backoff, since giving up would silently
// freeze the mirror forever.
func (this *BrokerMap) watchChildren() {
	for {
		this.mu.RLock()
		evt := this.watchCh
		this.mu.RUnlock()

		select {
		case e := <-evt:
			this.metrics.WatchFires.Inc(1)
			log.Trace("%s watch fired: %+v", this.root, e)

		case <-this.shutdownCh:
			return
		}

		for {
			err := this.reconfigure(this.configure)
			if err == nil {
				break
			}

			this.metrics.RefreshErrs.Inc(1)
			log.Error("%s refresh: %v", this.root, err)

			select {
			case <-time.After(refreshBackoff):
			case <-this.shutdownCh:
				return
			}
		}
	}
}

package brokermap

import (
	"fmt"

	"github.com/Shopify/sarama"
)

type dialFunc func(addr string) (sarama.Client, error)

func dialKafka(addr string) (sarama.Client, error) {
	return sarama.NewClient([]string{addr}, sarama.NewConfig())
}

// Client returns the kafka client of this broker, dialing it lazily on first
// use and memoizing it afterwards. The client is keyed to the broker's addr
// at dial time: a later watch-triggered move of host:port drops the memoized
// client (see configure), while a broker marked dead keeps it until the
// caller discards the record.
func (this *Broker) Client() (sarama.Client, error) {
	if err := this.ensure(); err != nil {
		return nil, err
	}

	// optimistic read, the common case is a cache hit
	this.mu.RLock()
	client := this.client
	this.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	this.mu.Lock()
	defer this.mu.Unlock()

	// might have lost the dial race, recheck under the write lock
	if this.client != nil {
		return this.client, nil
	}

	if this.dead {
		// the endpoint is gone from the cluster, nothing to dial
		return nil, ErrBrokerDead
	}

	// the endpoint the record holds right now, not a snapshot from before
	// the lock: a refresh may have moved it in between
	addr := fmt.Sprintf("%s:%d", this.host, this.port)

	client, err := this.dial(addr)
	if err != nil {
		// errors are not cached, a later call may succeed
		return nil, err
	}

	this.client = client
	return client, nil
}

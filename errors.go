package brokermap

import (
	"errors"
)

var (
	// ErrClusterNotInitialized means the brokers root path is absent in
	// Zookeeper: the kafka cluster was never bootstrapped. Callers must be
	// able to tell this apart from a cluster with no live brokers.
	ErrClusterNotInitialized = errors.New("brokers path not found in zookeeper, is your kafka cluster running?")

	// ErrBrokerNotFound means the broker id is not among the live members.
	ErrBrokerNotFound = errors.New("broker id not found")

	// ErrInvalidBrokerZnode means the broker znode value is not of the
	// form creator:host:port.
	ErrInvalidBrokerZnode = errors.New("invalid broker znode data")

	// ErrBrokerDead means the operation needs a live broker record.
	ErrBrokerDead = errors.New("broker already dead")
)

package brokermap

import (
	"github.com/samuel/go-zookeeper/zk"
)

// Coordinator is the watch capable subset of the coordination service the
// mirror relies upon. Watches are one-shot: each fetch arms a fresh event
// channel that fires at most once, on the next change of the path. To keep
// receiving updates the fetch must be repeated after every delivery.
type Coordinator interface {
	// ChildrenW returns the children names of path and arms a watch on its
	// membership.
	ChildrenW(path string) ([]string, <-chan zk.Event, error)

	// GetW returns the value of path and arms a watch on its data.
	GetW(path string) ([]byte, <-chan zk.Event, error)
}

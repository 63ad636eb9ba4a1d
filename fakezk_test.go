package brokermap

import (
	"sync"
	"testing"
	"time"

	log "github.com/funkygao/log4go"
	"github.com/samuel/go-zookeeper/zk"
)

func init() {
	log.Disable()

	refreshBackoff = time.Millisecond * 20
}

// fakeZk is an in-memory coordination service double. Like the real thing,
// its watches are one-shot: each *W fetch arms a fresh channel, and a client
// that stops refetching stops hearing about changes.
type fakeZk struct {
	mu sync.Mutex

	children map[string][]string
	data     map[string][]byte

	childWatches map[string][]chan zk.Event
	dataWatches  map[string][]chan zk.Event

	childrenFetches map[string]int
	dataFetches     map[string]int
}

func newFakeZk() *fakeZk {
	return &fakeZk{
		children:        make(map[string][]string),
		data:            make(map[string][]byte),
		childWatches:    make(map[string][]chan zk.Event),
		dataWatches:     make(map[string][]chan zk.Event),
		childrenFetches: make(map[string]int),
		dataFetches:     make(map[string]int),
	}
}

func (this *fakeZk) ChildrenW(path string) ([]string, <-chan zk.Event, error) {
	this.mu.Lock()
	defer this.mu.Unlock()

	this.childrenFetches[path]++
	children, present := this.children[path]
	if !present {
		return nil, nil, zk.ErrNoNode
	}

	r := make([]string, len(children))
	copy(r, children)

	watch := make(chan zk.Event, 1)
	this.childWatches[path] = append(this.childWatches[path], watch)
	return r, watch, nil
}

func (this *fakeZk) GetW(path string) ([]byte, <-chan zk.Event, error) {
	this.mu.Lock()
	defer this.mu.Unlock()

	this.dataFetches[path]++
	data, present := this.data[path]
	if !present {
		return nil, nil, zk.ErrNoNode
	}

	r := make([]byte, len(data))
	copy(r, data)

	watch := make(chan zk.Event, 1)
	this.dataWatches[path] = append(this.dataWatches[path], watch)
	return r, watch, nil
}

// setChildren replaces the children of path and delivers every armed
// membership watch exactly once.
func (this *fakeZk) setChildren(path string, children ...string) {
	this.mu.Lock()
	this.children[path] = children
	armed := this.childWatches[path]
	this.childWatches[path] = nil
	this.mu.Unlock()

	for _, watch := range armed {
		watch <- zk.Event{Type: zk.EventNodeChildrenChanged, Path: path}
	}
}

// setData replaces the value of path and delivers every armed data watch
// exactly once.
func (this *fakeZk) setData(path, value string) {
	this.mu.Lock()
	this.data[path] = []byte(value)
	armed := this.dataWatches[path]
	this.dataWatches[path] = nil
	this.mu.Unlock()

	for _, watch := range armed {
		watch <- zk.Event{Type: zk.EventNodeDataChanged, Path: path}
	}
}

// deleteChildrenNode removes path from the children tree so that further
// ChildrenW fetches fail with ErrNoNode, and delivers every armed membership
// watch exactly once.
func (this *fakeZk) deleteChildrenNode(path string) {
	this.mu.Lock()
	delete(this.children, path)
	armed := this.childWatches[path]
	this.childWatches[path] = nil
	this.mu.Unlock()

	for _, watch := range armed {
		watch <- zk.Event{Type: zk.EventNodeDeleted, Path: path}
	}
}

func (this *fakeZk) deleteNode(path string) {
	this.mu.Lock()
	delete(this.data, path)
	armed := this.dataWatches[path]
	this.dataWatches[path] = nil
	this.mu.Unlock()

	for _, watch := range armed {
		watch <- zk.Event{Type: zk.EventNodeDeleted, Path: path}
	}
}

func (this *fakeZk) childrenFetchCount(path string) int {
	this.mu.Lock()
	defer this.mu.Unlock()
	return this.childrenFetches[path]
}

func (this *fakeZk) dataFetchCount(path string) int {
	this.mu.Lock()
	defer this.mu.Unlock()
	return this.dataFetches[path]
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond * 5)
	}

	t.Fatalf("condition not met within %s", timeout)
}

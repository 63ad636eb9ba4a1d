package zk

import (
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	log "github.com/funkygao/log4go"
	"github.com/samuel/go-zookeeper/zk"
)

// ZkConn is a lazily connecting Zookeeper session: any operation dials the
// ensemble first if needed. It satisfies the brokermap Coordinator contract,
// every *W fetch arming a fresh one-shot watch on the touched path.
type ZkConn struct {
	conf *Config

	mu   sync.Mutex
	conn *zk.Conn
	evt  <-chan zk.Event
}

// New creates a ZkConn. No network io happens until the first operation.
func New(conf *Config) *ZkConn {
	return &ZkConn{conf: conf}
}

func (this *ZkConn) ZkAddrs() string {
	return this.conf.ZkAddrs
}

func (this *ZkConn) ZkAddrList() []string {
	return strings.Split(this.conf.ZkAddrs, ",")
}

// Conn exposes the raw session for operations this wrapper does not cover.
func (this *ZkConn) Conn() *zk.Conn {
	return this.conn
}

func (this *ZkConn) Close() {
	this.mu.Lock()
	defer this.mu.Unlock()

	if this.conn != nil {
		this.conn.Close()
		this.conn = nil
	}
}

func (this *ZkConn) Connect() error {
	this.mu.Lock()
	defer this.mu.Unlock()

	if this.conn != nil {
		log.Warn("zk %s already connected", this.conf.ZkAddrs)
		return ErrDupConnect
	}

	return this.connectLocked()
}

func (this *ZkConn) connectIfNeccessary() error {
	this.mu.Lock()
	defer this.mu.Unlock()

	if this.conn != nil {
		return nil
	}

	return this.connectLocked()
}

func (this *ZkConn) connectLocked() (err error) {
	var i int
	for i = 1; i <= 3; i++ {
		log.Debug("zk #%d try connecting %s", i, this.conf.ZkAddrs)
		this.conn, this.evt, err = zk.Connect(this.ZkAddrList(), this.conf.Timeout)
		if err == nil {
			break
		}

		backoff := time.Millisecond * 200 * time.Duration(i)
		log.Debug("zk #%d connect backoff %s", i, backoff)
		time.Sleep(backoff)
	}

	if err != nil {
		return err
	}

	log.Debug("zk connected with %s after %d retries", this.conf.ZkAddrs, i-1)
	return nil
}

// ChildrenW lists the children of path and arms a one-shot watch on its
// membership.
func (this *ZkConn) ChildrenW(path string) ([]string, <-chan zk.Event, error) {
	if err := this.connectIfNeccessary(); err != nil {
		return nil, nil, err
	}

	children, _, watch, err := this.conn.ChildrenW(path)
	if err != nil {
		return nil, nil, err
	}

	return children, watch, nil
}

// GetW reads the value of path and arms a one-shot watch on its data.
func (this *ZkConn) GetW(path string) ([]byte, <-chan zk.Event, error) {
	if err := this.connectIfNeccessary(); err != nil {
		return nil, nil, err
	}

	data, _, watch, err := this.conn.GetW(path)
	if err != nil {
		return nil, nil, err
	}

	return data, watch, nil
}

func (this *ZkConn) Children(path string) ([]string, error) {
	if err := this.connectIfNeccessary(); err != nil {
		return nil, err
	}

	children, _, err := this.conn.Children(path)
	return children, err
}

func (this *ZkConn) Get(path string) ([]byte, error) {
	if err := this.connectIfNeccessary(); err != nil {
		return nil, err
	}

	data, _, err := this.conn.Get(path)
	return data, err
}

func (this *ZkConn) Exists(path string) (bool, error) {
	if err := this.connectIfNeccessary(); err != nil {
		return false, err
	}

	present, _, err := this.conn.Exists(path)
	return present, err
}

func (this *ZkConn) CreateZnode(path string, data []byte) error {
	if err := this.connectIfNeccessary(); err != nil {
		return err
	}

	acl := zk.WorldACL(zk.PermAll)
	flags := int32(0)
	_, err := this.conn.Create(path, data, flags, acl)
	return err
}

func (this *ZkConn) CreateEphemeralZnode(path string, data []byte) error {
	if err := this.connectIfNeccessary(); err != nil {
		return err
	}

	acl := zk.WorldACL(zk.PermAll)
	flags := int32(zk.FlagEphemeral)
	_, err := this.conn.Create(path, data, flags, acl)
	return err
}

func (this *ZkConn) SetZnode(path string, data []byte) error {
	if err := this.connectIfNeccessary(); err != nil {
		return err
	}

	_, err := this.conn.Set(path, data, -1)
	return err
}

func (this *ZkConn) DeleteZnode(path string) error {
	if err := this.connectIfNeccessary(); err != nil {
		return err
	}

	return this.conn.Delete(path, -1)
}

// EnsureDir creates node and all its missing parents as persistent znodes.
func (this *ZkConn) EnsureDir(node string) (err error) {
	if err = this.connectIfNeccessary(); err != nil {
		return
	}

	return this.mkdirRecursive(node)
}

func (this *ZkConn) mkdirRecursive(node string) (err error) {
	parent := path.Dir(node)
	if parent != "/" {
		if err = this.mkdirRecursive(parent); err != nil {
			return
		}
	}

	_, err = this.conn.Create(node, nil, 0, zk.WorldACL(zk.PermAll))
	if err == zk.ErrNodeExists {
		err = nil
	}
	return
}

// RegisterBroker writes the ephemeral registration znode a kafka broker
// announces itself with: root/<id> valued creator:host:port. The node goes
// away with this session, which is exactly the liveness the mirror watches.
func (this *ZkConn) RegisterBroker(root string, id int, creator, host string, port int) error {
	if err := this.EnsureDir(root); err != nil {
		return err
	}

	znode := fmt.Sprintf("%s/%d", root, id)
	data := fmt.Sprintf("%s:%s:%d", creator, host, port)
	return this.CreateEphemeralZnode(znode, []byte(data))
}

// UnregisterBroker removes a broker registration before its session dies.
func (this *ZkConn) UnregisterBroker(root string, id int) error {
	return this.DeleteZnode(fmt.Sprintf("%s/%d", root, id))
}

package command

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/funkygao/brokermap"
	"github.com/funkygao/brokermap/ctx"
	"github.com/funkygao/brokermap/zk"
	"github.com/funkygao/gocli"
	"github.com/funkygao/golib/signal"
)

// Register announces a broker under /brokers/ids the way kafka does: an
// ephemeral znode that vanishes with the session. Mostly useful to exercise
// a mirror against a test ensemble without running real brokers.
type Register struct {
	Ui  cli.Ui
	Cmd string
}

func (this *Register) Run(args []string) (exitCode int) {
	var (
		zone   string
		chroot string
		id     int
		host   string
		port   int
	)
	cmdFlags := flag.NewFlagSet("register", flag.ContinueOnError)
	cmdFlags.Usage = func() { this.Ui.Output(this.Help()) }
	cmdFlags.StringVar(&zone, "z", ctx.ZkDefaultZone(), "")
	cmdFlags.StringVar(&chroot, "p", "", "")
	cmdFlags.IntVar(&id, "id", -1, "")
	cmdFlags.StringVar(&host, "host", "", "")
	cmdFlags.IntVar(&port, "port", 9092, "")
	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	if id < 0 || host == "" {
		this.Ui.Error("-id and -host are required")
		this.Ui.Output(this.Help())
		return 2
	}

	ensureZoneValid(zone)

	zkConn := zk.New(zk.DefaultConfig(ctx.ZoneZkAddrs(zone)))
	defer zkConn.Close()

	root := brokermap.BrokerIdsPathOf(chroot)
	if err := zkConn.RegisterBroker(root, id, ctx.Hostname(), host, port); err != nil {
		this.Ui.Error(err.Error())
		return 1
	}

	this.Ui.Info(fmt.Sprintf("broker[%d] registered at %s as %s:%d, ctrl-c to unregister",
		id, root, host, port))

	closed := make(chan struct{})
	signal.RegisterHandler(func(sig os.Signal) {
		// session close reaps the ephemeral znode
		close(closed)
	}, syscall.SIGINT, syscall.SIGTERM)
	<-closed
	return
}

func (*Register) Synopsis() string {
	return "Register a fake broker znode until interrupted"
}

func (this *Register) Help() string {
	help := fmt.Sprintf(`
Usage: %s register -id id -host host [options]

    %s

Options:

    -z zone

    -p chroot
      Kafka cluster chroot path in zookeeper.

    -id brokerId

    -host host

    -port port
      Defaults 9092.

`, this.Cmd, this.Synopsis())
	return strings.TrimSpace(help)
}

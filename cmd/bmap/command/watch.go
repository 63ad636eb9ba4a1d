package command

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/funkygao/brokermap"
	"github.com/funkygao/brokermap/ctx"
	"github.com/funkygao/brokermap/zk"
	"github.com/funkygao/gocli"
	"github.com/funkygao/golib/color"
	"github.com/funkygao/golib/signal"
)

type Watch struct {
	Ui  cli.Ui
	Cmd string
}

func (this *Watch) Run(args []string) (exitCode int) {
	var (
		zone     string
		chroot   string
		interval time.Duration
	)
	cmdFlags := flag.NewFlagSet("watch", flag.ContinueOnError)
	cmdFlags.Usage = func() { this.Ui.Output(this.Help()) }
	cmdFlags.StringVar(&zone, "z", ctx.ZkDefaultZone(), "")
	cmdFlags.StringVar(&chroot, "p", "", "")
	cmdFlags.DurationVar(&interval, "interval", time.Second, "")
	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	ensureZoneValid(zone)

	zkConn := zk.New(zk.DefaultConfig(ctx.ZoneZkAddrs(zone)))
	defer zkConn.Close()

	bm := brokermap.New(zkConn, brokermap.BrokerIdsPathOf(chroot))
	defer bm.Close()

	known, err := bm.Snapshot()
	if err != nil {
		this.Ui.Error(err.Error())
		return 1
	}
	for id, broker := range known {
		if addr, err := broker.Addr(); err == nil {
			this.Ui.Output(fmt.Sprintf("%d %s", id, addr))
		} else {
			this.Ui.Warn(fmt.Sprintf("%d %v", id, err))
		}
	}

	closed := make(chan struct{})
	signal.RegisterHandler(func(sig os.Signal) {
		close(closed)
	}, syscall.SIGINT, syscall.SIGTERM)

	// the mirror follows zookeeper by itself, we only render its deltas
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			current, err := bm.Snapshot()
			if err != nil {
				this.Ui.Error(err.Error())
				continue
			}

			for id, broker := range current {
				if _, present := known[id]; !present {
					addr, _ := broker.Addr()
					this.Ui.Output(color.Green("+%d %s", id, addr))
				}
			}
			for id, broker := range known {
				if _, present := current[id]; !present && broker.IsDead() {
					this.Ui.Output(color.Red("-%d %s", id, broker))
				}
			}

			known = current

		case <-closed:
			return
		}
	}
}

func (*Watch) Synopsis() string {
	return "Follow broker membership changes of a kafka cluster"
}

func (this *Watch) Help() string {
	help := fmt.Sprintf(`
Usage: %s watch [options]

    %s

Options:

    -z zone

    -p chroot
      Kafka cluster chroot path in zookeeper.

    -interval duration
      Render interval. Defaults 1s.

`, this.Cmd, this.Synopsis())
	return strings.TrimSpace(help)
}

package command

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/Shopify/sarama"
	"github.com/funkygao/brokermap"
	"github.com/funkygao/brokermap/ctx"
	"github.com/funkygao/brokermap/zk"
	"github.com/funkygao/gocli"
	"github.com/funkygao/golib/color"
	"github.com/ryanuber/columnize"
)

type Brokers struct {
	Ui  cli.Ui
	Cmd string

	staleOnly bool
}

func (this *Brokers) Run(args []string) (exitCode int) {
	var (
		zone   string
		chroot string
	)
	cmdFlags := flag.NewFlagSet("brokers", flag.ContinueOnError)
	cmdFlags.Usage = func() { this.Ui.Output(this.Help()) }
	cmdFlags.StringVar(&zone, "z", ctx.ZkDefaultZone(), "")
	cmdFlags.StringVar(&chroot, "p", "", "")
	cmdFlags.BoolVar(&this.staleOnly, "stale", false, "")
	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	ensureZoneValid(zone)

	zkConn := zk.New(zk.DefaultConfig(ctx.ZoneZkAddrs(zone)))
	defer zkConn.Close()

	bm := brokermap.New(zkConn, brokermap.BrokerIdsPathOf(chroot))
	defer bm.Close()

	snapshot, err := bm.Snapshot()
	if err != nil {
		this.Ui.Error(err.Error())
		return 1
	}

	if len(snapshot) == 0 {
		this.Ui.Output(color.Red("empty brokers"))
		return
	}

	sortedIds := make([]int, 0, len(snapshot))
	for id := range snapshot {
		sortedIds = append(sortedIds, id)
	}
	sort.Ints(sortedIds)

	lines := []string{"Id|Addr|State"}
	staleN := 0
	for _, id := range sortedIds {
		broker := snapshot[id]
		addr, err := broker.Addr()
		if err != nil {
			staleN++
			lines = append(lines, fmt.Sprintf("%d|-|%s", id, color.Yellow(err.Error())))
			continue
		}

		if this.staleOnly {
			kfk, err := sarama.NewClient([]string{addr}, sarama.NewConfig())
			if err != nil {
				staleN++
				lines = append(lines, fmt.Sprintf("%d|%s|%s", id, addr,
					color.Red(err.Error())))
			} else {
				kfk.Close()
			}
			continue
		}

		lines = append(lines, fmt.Sprintf("%d|%s|%s", id, addr, color.Green("ok")))
	}

	if this.staleOnly && staleN == 0 {
		this.Ui.Info(fmt.Sprintf("all %d brokers alive", len(snapshot)))
		return
	}

	this.Ui.Output(columnize.SimpleFormat(lines))
	return
}

func (*Brokers) Synopsis() string {
	return "Print live brokers of a kafka cluster"
}

func (this *Brokers) Help() string {
	help := fmt.Sprintf(`
Usage: %s brokers [options]

    %s

Options:

    -z zone

    -p chroot
      Kafka cluster chroot path in zookeeper.

    -stale
      Probe each broker with a kafka client and print only the sick ones.

`, this.Cmd, this.Synopsis())
	return strings.TrimSpace(help)
}

package command

import (
	"fmt"
	"strings"

	"github.com/funkygao/brokermap/ctx"
	"github.com/funkygao/gocli"
	"github.com/ryanuber/columnize"
)

type Zones struct {
	Ui  cli.Ui
	Cmd string
}

func (this *Zones) Run(args []string) (exitCode int) {
	lines := []string{"Zone|ZkAddrs"}
	defaultZone := ctx.ZkDefaultZone()
	for _, zone := range ctx.SortedZones() {
		name := zone
		if zone == defaultZone {
			name += "*"
		}
		lines = append(lines, fmt.Sprintf("%s|%s", name, ctx.ZoneZkAddrs(zone)))
	}

	this.Ui.Output(columnize.SimpleFormat(lines))
	return
}

func (*Zones) Synopsis() string {
	return "Print zookeeper zones defined in ~/.brokermap.cf"
}

func (this *Zones) Help() string {
	help := fmt.Sprintf(`
Usage: %s zones

    %s

`, this.Cmd, this.Synopsis())
	return strings.TrimSpace(help)
}

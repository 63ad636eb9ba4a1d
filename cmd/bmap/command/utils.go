package command

import (
	"fmt"
	"os"

	"github.com/funkygao/brokermap/ctx"
)

func ensureZoneValid(zone string) {
	if ctx.ZoneZkAddrs(zone) == "" {
		fmt.Fprintf(os.Stderr, "invalid zone: %s\n", zone)
		os.Exit(1)
	}
}

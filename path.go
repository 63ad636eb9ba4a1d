package brokermap

import (
	"fmt"
)

const (
	// BrokerIdsPath is where kafka brokers register themselves: each child
	// is a decimal broker id whose value is creator:host:port.
	BrokerIdsPath = "/brokers/ids"
)

// BrokerIdsPathOf returns the broker ids root of a kafka cluster living
// under chroot.
func BrokerIdsPathOf(chroot string) string {
	return chroot + BrokerIdsPath
}

func brokerPath(root string, id int) string {
	return fmt.Sprintf("%s/%d", root, id)
}

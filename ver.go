// Package brokermap maintains a live, in-process mirror of a kafka
// cluster broker topology whose authoritative state lives in Zookeeper.
package brokermap

var (
	// Version is the version of the brokermap library.
	Version = "unknown"

	// BuildId is the SCM commit id.
	BuildId = "?"

	// BuiltAt is the time when build.sh was run.
	BuiltAt = "1970"
)

package ctx

func Hostname() string {
	ensureLogLoaded()
	return conf.hostname
}

func LogLevel() string {
	ensureLogLoaded()
	return conf.logLevel
}

func Zones() map[string]string {
	ensureLogLoaded()
	return conf.zones
}

func SortedZones() []string {
	ensureLogLoaded()
	return conf.sortedZones()
}

func ZkDefaultZone() string {
	ensureLogLoaded()
	return conf.zkDefaultZone
}

// ZoneZkAddrs returns the zookeeper ensemble addrs of a zone, empty when the
// zone is unknown.
func ZoneZkAddrs(zone string) string {
	ensureLogLoaded()
	return conf.zones[zone]
}

package ctx

const (
	DefaultConfig = `
{
    zones: [
        {
            name: "local"
            zk: "localhost:2181"
        }
    ]

    zk_default_zone: "local"
    loglevel: "info"
}
`
)

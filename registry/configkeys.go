package registry

const (
	delimiter = "."

	ConfigPrefix = "config"

	ConfigRegistryPrefix = ConfigPrefix + delimiter + "registry"

	ConfigRegistryCachePrefix    = ConfigRegistryPrefix + delimiter + "cache"
	ConfigRegistryCacheNumShards = ConfigRegistryCachePrefix + delimiter + "num_shards"

	ConfigRegistryLogPrefix = ConfigRegistryPrefix + delimiter + "log"
	ConfigRegistryLogLevel  = ConfigRegistryLogPrefix + delimiter + "level"
)

// Package config holds the configuration of a timesman process.
//
// The values are read from a viper instance, which the cmd package fills from
// (in order of precedence) command line flags, TIMESMAN_* environment variables
// (.env and .env.local are loaded first), an optional config file and the
// Defaults of this package. The keys are the same everywhere:
//
//	store-type        sqlite | rpc | rest
//	store-param       database path | rpc endpoints | rest base url
//	listen            bind address of "serve"
//	api               rpc | rest (service exposed by "serve")
//	transport         http | tcp | unix (rpc only)
//	serializer        json | gob (rpc only)
//	timeout           backend call timeout in seconds, 0 disables it
//	lock-timeout      store lock wait timeout in seconds, 0 disables it
//	retries           rpc transport retries
//	log-level         debug | info | warn | error
//	log-file          log destination, empty is stdout
//	channel-capacity  capacity of the result channel of a pane
//	fps               frame rate of the app
//	metrics           expose GET /metrics (rest api)
package config

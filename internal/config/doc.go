// Package config loads the dbeast CLI configuration.
//
// Settings come from an optional YAML file (dbeast.yaml by default) and are
// then overridden by environment variables. Secrets such as the dashboard
// server token are read from the environment only.
package config

package config

// DefaultConfigFile is read when no --config flag is given and it exists in
// the working directory.
const DefaultConfigFile = "dbeast.yaml"

// ServerURLKey is the plugin jsonData key holding the backend base URL.
const ServerURLKey = "SERVER_URL"

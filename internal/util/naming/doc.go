// Package naming holds the data-source naming convention used by the
// dBeast monitoring app.
//
// Every monitored cluster is registered on the dashboard server as a data
// source whose UID is {prefix}{cluster}, e.g.
// "Elasticsearch-direct-mon--prod-eu". The monitoring cluster itself uses the
// same prefix followed by the reserved "monitoring" token and is never a
// candidate for an upgrade.
package naming

// Package upgrade implements the cluster-upgrade workflow.
//
// A run starts with Discover, which lists the dashboard server's data
// sources, keeps those following the monitored-cluster naming convention and
// collapses them into a URL-unique queue of Projects (BuildQueue). The first
// Project then becomes active. Each active Project is resolved either by
// Submit, which posts it to the dBeast backend, or by Skip. ClosePrompt ends
// the run and leaves the remaining Projects pending.
//
// Only one Project is active at a time and only one submission may be in
// flight; concurrent calls get ErrBusy.
package upgrade

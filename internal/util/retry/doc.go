// Package retry retries an operation with exponential backoff.
//
// [Do] is used by the doctor command to wait for the dashboard server and
// the dBeast backend to come up. The upgrade workflow itself never retries:
// a failed submission is handed back to the user.
package retry

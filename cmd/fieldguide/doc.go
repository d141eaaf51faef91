// Command fieldguide is the operator CLI for the fieldguide daemon. Play
// commands talk to the daemon HTTP API; config and catalog commands work on
// local files.
package main

// Package action runs the external per-chat processing command. The command
// contends for the local desktop UI, so the monitor invokes it single-flight
// with a hard timeout; this package only knows how to run it and capture its
// output.
package action

// Package logger records what happens in a shell session as newline
// delimited JSON events and summarizes those logs into reports.
package logger

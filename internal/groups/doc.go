// Package groups resolves watched file paths to chat identities.
//
// A chat is the logical unit the monitor schedules work for: one directory
// under the watch root per chat. The resolver derives the chat id from the
// path and attaches the display name loaded once from the WeChat contacts
// database.
package groups

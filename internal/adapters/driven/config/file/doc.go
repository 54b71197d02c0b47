// Package file provides the file-based implementation of the credential
// store. The token pair and client identity live in a TOML file that the
// trading process reads directly; writes replace the file atomically so a
// concurrent reader never observes a torn write.
//
// Adapters:
//   - Store: TOML-based configuration and credential storage
//   - Watcher: fsnotify-based change notification for external readers
package file

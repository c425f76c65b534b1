// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the octoscope directory, ~/.octoscope by default.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage (config.toml)
//   - TokenFile: JSON-based session token persistence (session.json), with
//     change notification through fsnotify so that a login or logout in one
//     process is picked up by every other running process
package file

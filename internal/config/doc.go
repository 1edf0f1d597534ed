// Package config loads history's own tunables — undo depth, grouping
// delay, item-retention policy — from TOML, the way the host's own
// configuration layer loads settings: unmarshal into a typed struct,
// fall back to defaults when the file (or a field) is absent.
package config

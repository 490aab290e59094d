// Package file provides the TOML file-backed configuration store.
//
// The file lives at <config dir>/config.toml and uses tables that map to
// dot-notation keys:
//
//	[listen]
//	port = 9100
//
//	[storage]
//	dir = "/home/root/.local/share/remarkable/xochitl/"
//
//	[journal]
//	enabled = true
//
//	[notify]
//	command = "systemctl restart xochitl"
package file

// Package config loads reel's TOML configuration file.
//
// # Overview
//
// The file carries logging and calendar settings plus the raw description of
// the Radarr servers reel talks to. The server description comes in one of two
// shapes, and Load hands it on untouched as an instance.Source so that only
// the instance package deals with either shape.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/reel/config.toml
//  3. If the file doesn't exist, defaults apply and no servers are configured
//
// # Server Configuration
//
// Static form: a required primary server and an optional secondary one. The
// secondary is only used when enabled = true.
//
//	[primary]
//	name = "Home"
//	url = "http://radarr.lan:7878"
//	api_key = "0123abcd"
//
//	[secondary]
//	enabled = true
//	default = true
//	name = "Seedbox"
//	url = "https://radarr.example.com/"
//	api_key = "4567efgh"
//
// Dynamic form: a JSON array, for any number of servers.
//
//	instances_json = '''
//	[{"name": "Home", "url": "http://radarr.lan:7878", "apiKey": "0123abcd", "isDefault": true}]
//	'''
//
// Setting both forms is a configuration error.
//
// # Other Fields
//
//	[log]
//	level = "info"             # trace, debug, info, warn, error
//	dir = "~/.local/state/reel"
//
//	[calendar]
//	days_before = 7
//	days_after = 28
//
// Calendar windows are clamped to 1..365 days; zero or negative values fall
// back to the defaults.
//
// # Reloading
//
// LoadInstances returns a loader that re-reads the file on every call. The
// instance resolver uses it so an edited file takes effect on the next
// resolution without restarting.
package config

// Package config loads and merges gitscribe configuration from multiple
// sources with viper.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (GITSCRIBE_PROVIDER, GITSCRIBE_MAX_TOKENS,
//     GITSCRIBE_CACHE_TTL_SECONDS, ...), optionally seeded from a dotenv file
//  3. Config file ($XDG_CONFIG_HOME/gitscribe/config.json)
//  4. Built-in defaults
//
// API keys are never stored in the config file; providers read them from the
// environment. Use [Load] to obtain a merged [Config], [Save] to write one,
// and [SetField] to update a single key.
package config

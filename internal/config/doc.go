// Package config loads, normalizes, and validates dwcexport configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads .env files, and honours environment
// fallbacks such as DWCEXPORT_ES_PASSWORD and DWCEXPORT_MONGO_URI. Column
// selections are checked against the field registry at load time so a typo in
// core_fields fails before any data is read.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical enum values, and clear validation errors.
package config

// Package config loads, normalizes, and validates queue panel configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// QUEUEPANEL_SOCKET and QUEUEPANEL_URL. The Config type centralizes every
// knob the panel needs: how to reach the controller, the default priority for
// dropped files, the options forwarded with processing commands, and view
// timings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

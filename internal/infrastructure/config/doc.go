// Package config provides 12-factor configuration for the window scene
// host.
//
// Settings come from environment variables with defaults. The device
// layout (displays plus window system configuration) comes from an
// optional TOML or YAML file named by SCENE_LAYOUT_FILE.
//
// Environment Variables:
//   - SCENE_HOST_ADDR, SCENE_RPC_TIMEOUT
//   - SCENE_DEBUG_ADDR, SCENE_DEBUG_ENABLED
//   - EVENT_RPS, EVENT_BURST
//   - LOG_LEVEL, LOG_DEV
//   - BREAKER_MAX_FAILURES, BREAKER_TIMEOUT
//   - SCENE_LAYOUT_FILE
package config

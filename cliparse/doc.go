// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The Config is built once at startup and never changed afterwards.

# Config Fields

  - Port: Server listen port (default: 3318)
  - BackendURL: Inference backend base address (required)
  - RequestTimeout: Bound on each backend request (default: 30s, 0 disables)
  - MaxUploadBytes: Largest accepted image upload (default: 10 MiB)
  - AllowedOrigin: CORS origin (default: echo the request origin)
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags

	-p           Server port
	-b           Backend base URL
	-timeout     Backend request timeout
	-max-upload  Maximum upload size in bytes
	-origin      Allowed CORS origin
	-log-level   Log level
	-env         Path to a .env file

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	BACKEND_URL      → -b
	REQUEST_TIMEOUT  → -timeout
	MAX_UPLOAD_BYTES → -max-upload
	ALLOWED_ORIGIN   → -origin
	LOG_LEVEL        → -log-level

CLI flags take precedence over environment variables. Variables missing from
the environment are read from ./.env (or the -env file) when present.
*/
package cliparse

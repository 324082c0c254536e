// Package config handles configuration loading for helpdesk-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	generation:
//	  api_key: "${GEMINI_API_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"   # API and chat page
//
// Database:
//
//	database:
//	  path: "/var/lib/helpdesk/gateway.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${HELPDESK_JWT_SECRET}"  # Required, min 32 bytes
//	  token_ttl: "72h"
//
// Generation service:
//
//	generation:
//	  api_key: "${GEMINI_API_KEY}"  # Optional; empty means knowledge-base fallback
//	  base_url: "https://generativelanguage.googleapis.com/v1beta"
//	  model: "gemini-2.0-flash"
//	  timeout: "30s"
//
// Chat surface:
//
//	chat:
//	  suggestions:
//	    - "What is your refund policy?"
//	    - "How long does shipping take?"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - JWT secret presence and minimum length (32 bytes)
//   - Database path presence
//   - Duration format validity
//   - Logging level and format values
package config

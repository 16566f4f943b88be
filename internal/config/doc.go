// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package config loads layered application configuration with Koanf v2.
//
// Sources, highest priority last:
//
//  1. Struct defaults (structs provider)
//  2. YAML file from CONFIG_PATH, ./config.yaml or /etc/cinequiz/config.yaml
//  3. Environment variables through an explicit mapping table
//
// Only mapped environment variables are read. For example TMDB_API_KEY sets
// catalog.api_key, HTTP_PORT sets server.port and DUCKDB_PATH sets
// analytics.db_path. CORS_ORIGINS is a comma-separated list.
//
// Upstreams are optional. Without TMDB credentials the catalog is disabled
// and recommendations are empty; without a discussion base URL every buzz
// lookup uses the heuristic; without an OMDb key critic scores are omitted.
//
// Example config.yaml:
//
//	server:
//	  port: 8080
//	catalog:
//	  api_key: "..."
//	discussion:
//	  base_url: "http://localhost:9000"
//	  rate_per_second: 2
//	experiment:
//	  store: badger
//	  store_path: /data/assignments
//	events:
//	  backend: nats
//	  embedded_nats: true
//	  embedded_store_dir: /data/nats
package config

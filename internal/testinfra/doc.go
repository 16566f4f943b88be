// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package testinfra provides container-backed infrastructure for integration
// tests. Everything here is behind the "integration" build tag:
//
//	go test -tags integration ./internal/cache/...
//
// # Redis Container
//
//	func TestRedisCache(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redis.Container)
//	    // use redis.URL
//	}
package testinfra

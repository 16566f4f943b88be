// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
Package models defines the HTTP response envelope shared by every API
endpoint.

Every response is an APIResponse. Successful responses carry Status
"success" and the payload in Data; failures carry Status "error", a nil
Data and an APIError with a machine readable code. Domain payloads
(recommend.Response, buzz.Classification, experiment.Assignment) live in
their own packages and are placed in Data unchanged.
*/
package models

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package grouping talks to the external grouping service.

The service receives every attendee plus a free-text query and answers with
named groups:

	client := grouping.NewHTTPClient(cfg.GroupingURL, cfg.GroupingTimeout)
	resp := client.RequestGroups(ctx, models.GroupingUsers(attendees), "group by AI interest")
	if resp.Failed() {
		// resp.Error holds the message to show
	}

# Failure Reporting

RequestGroups never returns a Go error. Transport failures, timeouts, non-2xx
statuses and malformed bodies all come back as a GroupingResponse with Error
set, so callers can show the text directly.

# Single Attempt

Each call makes exactly one HTTP request. There is no retry or backoff;
callers that must not duplicate work rely on that.

# Testing

Func adapts a function to Grouper:

	g := grouping.Func(func(ctx context.Context, users []models.GroupingUser, q string) models.GroupingResponse {
		return models.GroupingResponse{Error: "boom"}
	})
*/
package grouping

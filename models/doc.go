// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain and wire types shared across ConnectHub.

# Domain Types

  - Profile: what an attendee submits (name, email, interests, looking_to_connect_with)
  - Attendee: a stored Profile with its 1-based row ID

# Grouping Service Types

The external grouping service receives a GroupingRequest:

	{"users": [{"name", "email", "interests", "looking_to_connect_with"}, ...], "query": "..."}

and answers with a GroupingResponse, which holds either an error message or
a list of groups:

	{"groups": [{"name", "reason", "members": [{"name", "email"}, ...]}, ...]}

# Table Columns

The attendee table always uses this column order:

	id,name,email,interests,looking_to_connect_with
*/
package models

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session keeps per-browser UI state in memory.

Each browser gets a signed cookie naming its session:

	sessions := session.NewManager(cfg.SessionSalt, session.DefaultIdleTimeout)
	s, err := sessions.Load(w, r)

A session starts logged out with no groups. Its State is read with Snapshot
and changed with Update, which runs under the session's own lock:

	s.Update(func(st *session.State) {
		st.Groups = nil
	})

Sessions idle for longer than the timeout are dropped, and every session is
lost on restart.
*/
package session

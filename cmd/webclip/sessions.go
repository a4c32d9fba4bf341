package main

import "fmt"

// Run executes the sessions command.
func (c *SessionsCmd) Run(deps *Dependencies) error {
	states := deps.Sessions.ProbeAll(deps.Ctx)

	for _, s := range states {
		if !s.LoggedIn {
			fmt.Fprintf(deps.Stdout, "%-14s logged out\n", s.Platform)
			continue
		}
		name := s.Nickname
		if name == "" {
			name = s.UserID
		}
		fmt.Fprintf(deps.Stdout, "%-14s logged in as %s\n", s.Platform, name)
	}

	return nil
}

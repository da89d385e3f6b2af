package domain

import (
	"fmt"
	"strings"
)

// RepoRef identifies a repository as owner/name.
type RepoRef struct {
	Owner string
	Name  string
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepo parses an "owner/name" identifier.
func ParseRepo(s string) (RepoRef, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepoRef{}, fmt.Errorf("%w: repository must be in owner/repo format, got %q", ErrInvalidArgument, s)
	}
	return RepoRef{Owner: owner, Name: name}, nil
}

// StateFilter selects issues by state.
type StateFilter string

const (
	StateAll    StateFilter = "all"
	StateOpen   StateFilter = "open"
	StateClosed StateFilter = "closed"
)

// ParseStateFilter accepts all, open or closed. The empty string means all.
func ParseStateFilter(s string) (StateFilter, error) {
	switch f := StateFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return StateAll, nil
	case StateAll, StateOpen, StateClosed:
		return f, nil
	}
	return "", fmt.Errorf("%w: state must be one of all, open, closed, got %q", ErrInvalidArgument, s)
}

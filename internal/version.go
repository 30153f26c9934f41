package internal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// AcceptVersionHeader selects among versions of a route.
const AcceptVersionHeader = "Accept-Version"

type compiledRoute struct {
	route   *Route
	version *semver.Version
	handler Handler
}

// versionSet holds every registration for one method and path.
type versionSet struct {
	unversioned *compiledRoute
	versioned   []*compiledRoute // highest first
}

func (s *versionSet) add(cr *compiledRoute) error {
	if cr.version == nil {
		if s.unversioned != nil {
			return ErrDuplicateRoute
		}
		s.unversioned = cr
		return nil
	}
	for _, existing := range s.versioned {
		if existing.version.Equal(cr.version) {
			return ErrDuplicateRoute
		}
	}
	s.versioned = append(s.versioned, cr)
	sort.Slice(s.versioned, func(i, j int) bool {
		return s.versioned[i].version.GreaterThan(s.versioned[j].version)
	})
	return nil
}

func (s *versionSet) hasVersions() bool {
	return len(s.versioned) > 0
}

// pick selects a registration for an Accept-Version header value.
// Without a header the unversioned route wins, else the highest version.
// With one, the highest satisfying version wins, else the unversioned route.
// A nil result means nothing is acceptable.
func (s *versionSet) pick(header string) (*compiledRoute, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		if s.unversioned != nil {
			return s.unversioned, nil
		}
		if len(s.versioned) > 0 {
			return s.versioned[0], nil
		}
		return nil, nil
	}

	if header == "*" || header == "x" {
		if len(s.versioned) > 0 {
			return s.versioned[0], nil
		}
		return s.unversioned, nil
	}

	constraint, err := semver.NewConstraint(header)
	if err != nil {
		return nil, ErrBadRequest(fmt.Sprintf("invalid %s header %q", AcceptVersionHeader, header),
			WithErrorCode("invalid_version"), WithError(err))
	}
	for _, cr := range s.versioned {
		if constraint.Check(cr.version) {
			return cr, nil
		}
	}
	return s.unversioned, nil
}

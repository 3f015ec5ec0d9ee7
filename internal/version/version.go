// Package version gates Init against a supported-version constraint,
// mirroring the teacher's use of Masterminds/semver for package and
// registry version matching.
package version

import (
	"fmt"

	semver "github.com/Masterminds/semver/v3"
)

// Current is this build's library-surface version, bumped whenever the
// status-code contract or an operation signature in the public API
// changes.
const Current = "0.1.0"

// Compatible reports whether want (a semver constraint string such as
// "^1.0.0" or ">=1.0.0, <2.0.0") is satisfiable by Current. An empty
// want is always compatible.
func Compatible(want string) (bool, error) {
	if want == "" {
		return true, nil
	}
	constraint, err := semver.NewConstraint(want)
	if err != nil {
		return false, fmt.Errorf("version: invalid constraint %q: %w", want, err)
	}
	cur, err := semver.NewVersion(Current)
	if err != nil {
		return false, fmt.Errorf("version: invalid current version %q: %w", Current, err)
	}
	return constraint.Check(cur), nil
}

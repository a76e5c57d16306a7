package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Semver struct {
	Major      int
	Minor      int
	Patch      int
	Beta       bool
	Alpha      bool
	Prerelease int
}

// Parse reads MAJOR.MINOR.PATCH with an optional -alpha.N or -beta.N suffix.
func Parse(semver string) (Semver, error) {
	s := Semver{}
	core, pre, hasPre := strings.Cut(strings.TrimPrefix(semver, "v"), "-")

	split := strings.Split(core, ".")
	if len(split) != 3 {
		return Semver{}, errors.Errorf("invalid version %q: want MAJOR.MINOR.PATCH", semver)
	}
	for i, dst := range []*int{&s.Major, &s.Minor, &s.Patch} {
		n, err := strconv.Atoi(split[i])
		if err != nil || n < 0 {
			return Semver{}, errors.Errorf("invalid version %q: bad component %q", semver, split[i])
		}
		*dst = n
	}

	if hasPre {
		kind, num, ok := strings.Cut(pre, ".")
		if !ok {
			return Semver{}, errors.Errorf("invalid prerelease %q", pre)
		}
		switch kind {
		case "beta":
			s.Beta = true
		case "alpha":
			s.Alpha = true
		default:
			return Semver{}, errors.Errorf("invalid prerelease type: %s", kind)
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return Semver{}, errors.Wrapf(err, "invalid prerelease number %q", num)
		}
		s.Prerelease = n
	}

	return s, nil
}

func (s Semver) String() string {
	str := fmt.Sprintf("%d.%d.%d", s.Major, s.Minor, s.Patch)
	if s.Beta {
		str += "-beta." + strconv.Itoa(s.Prerelease)
	} else if s.Alpha {
		str += "-alpha." + strconv.Itoa(s.Prerelease)
	}
	return str
}

func (s Semver) stage() int {
	switch {
	case s.Alpha:
		return 0
	case s.Beta:
		return 1
	}
	return 2
}

// Compare returns -1, 0 or 1. Alpha sorts before beta, beta before release.
func (s Semver) Compare(o Semver) int {
	a := []int{s.Major, s.Minor, s.Patch, s.stage(), s.Prerelease}
	b := []int{o.Major, o.Minor, o.Patch, o.stage(), o.Prerelease}
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// Satisfies checks s against a constraint: ~X.Y.Z (same minor, at least Z),
// ^X.Y.Z (same major, at least X.Y.Z), >X.Y.Z, <X.Y.Z, or an exact version.
func (s Semver) Satisfies(cmp string) (bool, error) {
	op := ""
	if cmp != "" && strings.ContainsAny(cmp[:1], "~^<>") {
		op, cmp = cmp[:1], cmp[1:]
	}

	c, err := Parse(cmp)
	if err != nil {
		return false, err
	}

	switch op {
	case "~":
		return s.Major == c.Major && s.Minor == c.Minor && s.Compare(c) >= 0, nil
	case "^":
		return s.Major == c.Major && s.Compare(c) >= 0, nil
	case ">":
		return s.Compare(c) > 0, nil
	case "<":
		return s.Compare(c) < 0, nil
	}
	return s.Compare(c) == 0, nil
}

package version

import (
	"fmt"
	"regexp"
	"strconv"

	tmver "github.com/tendermint/tendermint/version"
)

// Set with ldflags:
//
//	-ldflags "-X 'github.com/beatoz/taxpool-go/cmd/version.Version=v0.1.0' -X 'github.com/beatoz/taxpool-go/cmd/version.GitCommit=$(git rev-parse --short HEAD)'"
var (
	Version   string
	GitCommit string
)

// Info is a parsed release version.
type Info struct {
	Major, Minor, Patch uint8
	Commit              uint32
}

var (
	current   = Info{Major: 0, Minor: 1, Patch: 0}
	reVersion = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)`)
)

func init() {
	if Version == "" {
		return
	}
	info, err := Parse(Version, GitCommit)
	if err != nil {
		panic(err)
	}
	current = info
}

// Parse reads "vMAJOR.MINOR.PATCH" and an optional hex commit hash.
// Only the first 8 hex digits of the commit are kept.
func Parse(ver, commit string) (Info, error) {
	m := reVersion.FindStringSubmatch(ver)
	if m == nil {
		return Info{}, fmt.Errorf("invalid version string: %q", ver)
	}
	var nums [3]uint8
	for i := range nums {
		n, err := strconv.ParseUint(m[i+1], 10, 8)
		if err != nil {
			return Info{}, fmt.Errorf("invalid version string: %q: %w", ver, err)
		}
		nums[i] = uint8(n)
	}

	info := Info{Major: nums[0], Minor: nums[1], Patch: nums[2]}
	if commit != "" {
		if len(commit) > 8 {
			commit = commit[:8]
		}
		c, err := strconv.ParseUint(commit, 16, 32)
		if err != nil {
			return Info{}, fmt.Errorf("invalid git commit: %q: %w", commit, err)
		}
		info.Commit = uint32(c)
	}
	return info, nil
}

// AppVersion packs major and minor into the value reported to tendermint.
// Patch releases and commits don't change it.
func (info Info) AppVersion() uint64 {
	return uint64(info.Major)<<56 | uint64(info.Minor)<<48
}

func (info Info) String() string {
	return fmt.Sprintf("v%d.%d.%d-%08x@%s", info.Major, info.Minor, info.Patch, info.Commit, tmver.TMCoreSemVer)
}

func Current() Info {
	return current
}

func String() string {
	return current.String()
}

func AppVersion() uint64 {
	return current.AppVersion()
}

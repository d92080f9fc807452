// internal/tagset/tagset.go
//
// Tag composition: branch + short commit (and, when the commit carries a
// semver git tag, the release version) become docker image refs. A build
// type prefixes every tag, including "latest", so parallel build types keep
// separate floating tags.

package tagset

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Inputs carries everything the composer needs. All fields are plain
// strings; sanitization happens here.
type Inputs struct {
	Image       string // repo, e.g. registry.example.com/team/app
	BuildType   string // optional tag prefix
	Branch      string
	ShortCommit string
	ReleaseTags []string // git tags pointing at the commit, any format
}

// Compose returns the full set of image refs for one build, deduplicated
// in insertion order: versioned tag first, release tag (if any), "latest".
func Compose(in Inputs) ([]string, error) {
	image := strings.TrimRight(strings.TrimSpace(in.Image), "/")
	if image == "" {
		return nil, errors.New("image repository is empty (set SLIPWAY_IMAGE)")
	}

	branch := Sanitize(in.Branch)
	short := Sanitize(in.ShortCommit)
	if branch == "" || short == "" {
		return nil, fmt.Errorf("cannot compose tags from branch %q and commit %q", in.Branch, in.ShortCommit)
	}
	prefix := Sanitize(in.BuildType)

	var refs []string
	add := func(tag string) {
		if prefix != "" {
			tag = prefix + "-" + tag
		}
		tag = Sanitize(tag)
		if !validTag(tag) {
			return
		}
		refs = append(refs, image+":"+tag)
	}

	add(branch + "-" + short)
	if rel := FirstSemver(in.ReleaseTags); rel != "" {
		add(rel)
	}
	add("latest")

	refs = dedup(refs)
	if len(refs) == 0 {
		return nil, errors.New("no valid image tags could be composed")
	}
	return refs, nil
}

// FirstSemver returns the first tag that parses as a semantic version,
// or "" when none does.
func FirstSemver(tags []string) string {
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, err := semver.NewVersion(t); err == nil {
			return t
		}
	}
	return ""
}

var tagAllowed = regexp.MustCompile(`^[a-z0-9_.-]{1,128}$`)

// Sanitize normalizes a string into docker tag form: lowercase, slashes and
// spaces become dashes, runs of dashes collapse, clamped to 128 chars.
func Sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, " ", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	if len(s) > 128 {
		s = s[:128]
	}
	return s
}

func validTag(tag string) bool {
	return tagAllowed.MatchString(tag)
}

// dedup preserves insertion order.
func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Package pattern compiles gitignore-style pattern lines into matchable specifications.
//
// A Spec holds one linear, ordered rule list. Layered sources (global ignore
// file, repository ignore files, command-line patterns) are concatenated in
// priority order before matching so that later rules override earlier ones,
// reproducing last-match-wins ignore-file semantics.
package pattern

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/temirov/git2text/internal/utils"
)

const (
	commentPrefix       = "#"
	negationPrefix      = "!"
	escapeCharacter     = '\\'
	bracketOpen         = '['
	bracketClose        = ']'
	errorMalformedLine  = "malformed pattern %q: unclosed bracket expression"
	directorySuffix     = "/"
	rootPathPlaceholder = "."
)

// Spec is a compiled, immutable, ordered list of gitignore-style rules.
// The zero value and nil both match nothing.
type Spec struct {
	rules   []gitignore.Pattern
	matcher gitignore.Matcher
}

// Compile builds a Spec from raw pattern lines. Blank lines and lines starting
// with a comment marker are discarded. Malformed bracket expressions are
// reported as errors at compile time rather than silently never matching.
func Compile(lines []string) (*Spec, error) {
	var rules []gitignore.Pattern
	for _, rawLine := range lines {
		trimmedLine := strings.TrimSpace(rawLine)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		if validationError := validatePatternLine(trimmedLine); validationError != nil {
			return nil, validationError
		}
		rules = append(rules, gitignore.ParsePattern(trimmedLine, nil))
	}
	return newSpec(rules), nil
}

// Merge concatenates the rules of the provided specs, in order, into a single
// Spec. Nil specs are skipped. Rule order across specs is preserved so that
// rules from later specs override rules from earlier ones.
func Merge(specs ...*Spec) *Spec {
	var rules []gitignore.Pattern
	for _, spec := range specs {
		if spec == nil {
			continue
		}
		rules = append(rules, spec.rules...)
	}
	return newSpec(rules)
}

// Matches evaluates the relative path against the compiled rules. The last
// matching rule decides: true for a non-negated exclude rule, false for a
// negated re-include rule or when no rule matches. A trailing separator on the
// path is accepted and stripped; directory-only rules apply when isDirectory
// is true.
func (spec *Spec) Matches(relativePath string, isDirectory bool) bool {
	if spec == nil || len(spec.rules) == 0 {
		return false
	}
	trimmedPath := strings.TrimSuffix(relativePath, directorySuffix)
	if trimmedPath == "" || trimmedPath == rootPathPlaceholder {
		return false
	}
	return spec.matcher.Match(utils.SplitPathSegments(trimmedPath), isDirectory)
}

// RuleCount returns the number of compiled rules.
func (spec *Spec) RuleCount() int {
	if spec == nil {
		return 0
	}
	return len(spec.rules)
}

func newSpec(rules []gitignore.Pattern) *Spec {
	return &Spec{
		rules:   rules,
		matcher: gitignore.NewMatcher(rules),
	}
}

// validatePatternLine rejects pattern lines containing unclosed bracket
// character classes. Escaped brackets do not open or close a class.
func validatePatternLine(line string) error {
	candidate := strings.TrimPrefix(line, negationPrefix)
	openerIndex := -1
	escaped := false
	for index := 0; index < len(candidate); index++ {
		character := candidate[index]
		if escaped {
			escaped = false
			continue
		}
		switch character {
		case escapeCharacter:
			escaped = true
		case bracketOpen:
			if openerIndex < 0 {
				openerIndex = index
			}
		case bracketClose:
			if openerIndex >= 0 && !bracketCloseIsLiteral(candidate, openerIndex, index) {
				openerIndex = -1
			}
		}
	}
	if openerIndex >= 0 {
		return fmt.Errorf(errorMalformedLine, line)
	}
	return nil
}

// bracketCloseIsLiteral reports whether the ']' at closeIndex is a literal
// class member rather than the closing bracket: it sits directly after the
// class opener, or after the opener's complement marker. Any '[' between the
// opener and the ']' is itself a literal member and does not shift the opener.
func bracketCloseIsLiteral(candidate string, openerIndex, closeIndex int) bool {
	if closeIndex == openerIndex+1 {
		return true
	}
	return closeIndex == openerIndex+2 && candidate[openerIndex+1] == '!'
}

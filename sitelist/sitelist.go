// Package sitelist turns a ports-style bsd.sites.mk file into named groups
// of candidate mirror URLs, resolving each MASTER_SITE variable through
// make so nested variables expand the way the build system sees them.
package sitelist

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

// varPattern matches MASTER_SITE variable assignments, including the
// appending "+=" form.
var varPattern = regexp.MustCompile(`^(MASTER_SITE_[A-Z_]+)\+?=`)

// badSitePattern catches site lists whose make variables did not expand,
// which leaves useless hosts like "http://.googlecode.com/files" behind.
// It also catches "http://www..com" in case that ever pops up.
var badSitePattern = regexp.MustCompile(`(//\.|\.\.|[a-zA-Z]//)`)

// Runner executes a shell command line and returns its stdout. Tests
// substitute their own.
type Runner func(command string) (string, error)

// Run is the default Runner. Commands go through /bin/sh, matching how the
// build system itself invokes make.
func Run(command string) (string, error) {
	out, err := exec.Command("/bin/sh", "-c", command).Output()
	if err != nil {
		return "", fmt.Errorf("command %q failed: %w", command, err)
	}
	return string(out), nil
}

// Group is one named collection of candidate mirror URLs, in file order.
type Group struct {
	Name string
	URLs []string
}

// List separates the usable groups from the ones skipped for unexpanded
// variables.
type List struct {
	Groups []Group
	Bad    map[string][]string
}

// ResolveVariable returns the value of a make variable. An environment
// variable of the same name overrides the make lookup.
func ResolveVariable(name, portsDir string, run Runner) (string, error) {
	if v, ok := os.LookupEnv(name); ok {
		return v, nil
	}
	out, err := run(fmt.Sprintf("make -f %s/Makefile -V %s", portsDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to resolve variable %s: %w", name, err)
	}
	return strings.TrimRight(out, "\n"), nil
}

// Load scans the site list file for MASTER_SITE variables, expands each one
// via make and splits the expansion into URLs. Groups whose expansion still
// contains unexpanded-variable artifacts land in Bad and are never ranked.
func Load(sitesMk string, run Runner) (*List, error) {
	f, err := os.Open(sitesMk)
	if err != nil {
		return nil, fmt.Errorf("failed to open site list %s: %w", sitesMk, err)
	}
	defer f.Close()

	list := &List{Bad: make(map[string][]string)}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := varPattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		name := m[1]
		// "+=" lines repeat a variable; make already folds them into one
		// value, so resolve each name once.
		if seen[name] {
			continue
		}
		seen[name] = true

		out, err := run(fmt.Sprintf("make -V %s -f %s", name, sitesMk))
		if err != nil {
			return nil, fmt.Errorf("failed to expand %s: %w", name, err)
		}
		urls := strings.Fields(out)

		if badSitePattern.MatchString(out) {
			list.Bad[name] = urls
			continue
		}
		list.Groups = append(list.Groups, Group{Name: name, URLs: urls})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read site list %s: %w", sitesMk, err)
	}
	return list, nil
}

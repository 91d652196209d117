// Package output renders ranked site groups as Makefile variable
// assignments suitable for make.conf or mk.conf includes.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Render writes one ranked group as a line-continued variable assignment:
//
//	MASTER_SITE_GNU=\
//	https://fast.example/pub/gnu/ \
//	https://slow.example/gnu/
//
// The last URL carries no trailing backslash, and a blank line separates
// the group from the next one.
func Render(w io.Writer, group string, urls []string) error {
	if _, err := fmt.Fprintf(w, "%s=\\\n", group); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Join(urls, " \\\n")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

package shell

import (
	"fmt"
	"sort"
	"strings"
)

// Managed blocks are the only part of the rc file this provider touches.
// Everything outside the markers belongs to the user and is carried through
// rewrites byte for byte.
const (
	blockStartFmt = "# >>> groundwork %s >>>"
	blockEndFmt   = "# <<< groundwork %s <<<"
)

type blockBounds struct {
	start, end int // line indices; end is the end-marker line
	found      bool
	truncated  bool // start marker without an end marker
}

func findBlock(lines []string, section string) blockBounds {
	startMarker := fmt.Sprintf(blockStartFmt, section)
	endMarker := fmt.Sprintf(blockEndFmt, section)

	bounds := blockBounds{start: -1, end: -1}
	for i, line := range lines {
		if !bounds.found && line == startMarker {
			bounds.found = true
			bounds.start = i
			continue
		}
		if bounds.found && line == endMarker {
			bounds.end = i
			return bounds
		}
	}
	if bounds.found {
		bounds.truncated = true
		bounds.end = len(lines)
	}
	return bounds
}

// ReadManagedBlock returns the content between the section's markers, or ""
// when the block is absent or truncated.
func ReadManagedBlock(content, section string) string {
	lines := strings.Split(content, "\n")
	bounds := findBlock(lines, section)
	if !bounds.found || bounds.truncated || bounds.end <= bounds.start+1 {
		return ""
	}

	var b strings.Builder
	for _, line := range lines[bounds.start+1 : bounds.end] {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteManagedBlock returns the content with the section's block set to the
// given body: an existing block is replaced in place, a truncated block is
// repaired, and a missing block is appended. Unmanaged lines are preserved.
func WriteManagedBlock(content, section, block string) string {
	rendered := fmt.Sprintf(blockStartFmt, section) + "\n" + block + fmt.Sprintf(blockEndFmt, section) + "\n"

	lines := strings.Split(content, "\n")
	bounds := findBlock(lines, section)

	if !bounds.found {
		if content == "" {
			return rendered
		}
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + "\n" + rendered
	}

	before := strings.Join(lines[:bounds.start], "\n")
	if bounds.start > 0 {
		before += "\n"
	}

	after := ""
	if !bounds.truncated && bounds.end+1 < len(lines) {
		after = strings.Join(lines[bounds.end+1:], "\n")
	}

	return before + rendered + after
}

// GenerateEnvBlock renders export lines for a managed env block, sorted by
// key so repeated runs produce identical bytes.
func GenerateEnvBlock(env map[string]string) string {
	return renderSorted(env, func(b *strings.Builder, key, value string) {
		fmt.Fprintf(b, "export %s=%q\n", key, value)
	})
}

// GenerateAliasBlock renders alias lines for a managed aliases block.
func GenerateAliasBlock(aliases map[string]string) string {
	return renderSorted(aliases, func(b *strings.Builder, key, value string) {
		fmt.Fprintf(b, "alias %s=%q\n", key, value)
	})
}

func renderSorted(entries map[string]string, line func(*strings.Builder, string, string)) string {
	if len(entries) == 0 {
		return ""
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		line(&b, k, entries[k])
	}
	return b.String()
}

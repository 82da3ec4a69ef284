package render

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitCommand splits a shell-style command string into tokens. Single and
// double quotes group words; a backslash escapes the next character outside
// single quotes. No variable expansion or globbing is performed.
func SplitCommand(command string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range command {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t' || r == '\n':
			if inWord {
				tokens = append(tokens, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}

	if escaped {
		return nil, fmt.Errorf("trailing backslash in command %q", command)
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote in command %q", quote, command)
	}
	if inWord {
		tokens = append(tokens, current.String())
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty render command")
	}
	return tokens, nil
}

// InjectThreads appends "-threads <n>" to the command when threads is
// positive. The renderer's thread count is tuned externally this way so CI
// can constrain a whole suite without editing per-test commands.
func InjectThreads(command []string, threads int) []string {
	if threads <= 0 {
		return command
	}
	injected := make([]string, 0, len(command)+2)
	injected = append(injected, command...)
	return append(injected, "-threads", strconv.Itoa(threads))
}

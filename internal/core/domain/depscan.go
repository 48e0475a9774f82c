package domain

import (
	"strings"
)

// ParseDependencyScan extracts the prerequisites from the output of a
// compiler's -M mode, "<object>: <source> <header...>". Backslash line
// continuations are joined and "\ " keeps a space inside a path. Only the
// first rule is read. Duplicates are dropped, order is kept.
func ParseDependencyScan(output string) ([]string, error) {
	joined := strings.NewReplacer("\\\r\n", " ", "\\\n", " ").Replace(output)

	var rule string
	for line := range strings.SplitSeq(joined, "\n") {
		if strings.TrimSpace(line) != "" {
			rule = line
			break
		}
	}

	sep := ruleSeparator(rule)
	if sep < 0 {
		return nil, tag(ErrDependencyScan, "reason", "no rule separator in scan output")
	}

	deps := splitEscaped(rule[sep+1:])
	if len(deps) == 0 {
		return nil, tag(ErrDependencyScan, "reason", "scan output lists no prerequisites")
	}

	seen := make(map[string]struct{}, len(deps))
	out := deps[:0]
	for _, d := range deps {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

// ruleSeparator finds the colon ending the rule target, skipping the drive
// letter colon of Windows paths.
func ruleSeparator(rule string) int {
	for i := 0; i < len(rule); i++ {
		if rule[i] != ':' {
			continue
		}
		if i == 1 && i+1 < len(rule) && (rule[i+1] == '\\' || rule[i+1] == '/') {
			continue
		}
		return i
	}
	return -1
}

func splitEscaped(s string) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && s[i+1] == ' ':
			cur.WriteByte(' ')
			i++
		case c == ' ' || c == '\t' || c == '\r':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return fields
}

package markdown

import "strings"

// Block is a generated region of a hand-editable note, delimited by two
// marker lines. Text outside the markers is preserved.
type Block struct {
	Start string
	End   string
}

// Lines returns the non-blank lines currently inside the block.
func (b Block) Lines(body string) []string {
	start := strings.Index(body, b.Start)
	end := strings.Index(body, b.End)
	if start < 0 || end < start {
		return nil
	}
	var out []string
	for _, line := range strings.Split(body[start+len(b.Start):end], "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// Replace swaps the block's content for generated, appending a new block
// when body has none.
func (b Block) Replace(body, generated string) string {
	block := b.Start + "\n" + generated + "\n" + b.End
	start := strings.Index(body, b.Start)
	end := strings.Index(body, b.End)
	if start >= 0 && end > start {
		return body[:start] + block + body[end+len(b.End):]
	}
	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}

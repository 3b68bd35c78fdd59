package highlight

// LineSpan is a Span clipped to a single line, in rune columns.
type LineSpan struct {
	StartCol int
	EndCol   int
	Kind     string
}

// ByLine projects document spans onto lines. Spans crossing a newline are
// split; the newline itself is never covered. spans must be ordered by Start.
func ByLine(text string, spans []Span) map[int][]LineSpan {
	out := make(map[int][]LineSpan)
	if len(spans) == 0 {
		return out
	}

	// lineStarts[i] is the rune offset where line i begins
	lineStarts := []int{0}
	offset := 0
	for _, r := range text {
		offset++
		if r == '\n' {
			lineStarts = append(lineStarts, offset)
		}
	}
	total := offset

	line := 0
	for _, span := range spans {
		start, end := span.Start, span.End
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if start >= end {
			continue
		}
		for line > 0 && lineStarts[line] > start {
			line--
		}
		for line+1 < len(lineStarts) && lineStarts[line+1] <= start {
			line++
		}
		for row := line; row < len(lineStarts) && lineStarts[row] < end; row++ {
			lineStart := lineStarts[row]
			lineEnd := total
			if row+1 < len(lineStarts) {
				lineEnd = lineStarts[row+1] - 1
			}
			from := max(start, lineStart)
			to := min(end, lineEnd)
			if from >= to {
				continue
			}
			out[row] = append(out[row], LineSpan{
				StartCol: from - lineStart,
				EndCol:   to - lineStart,
				Kind:     span.Kind,
			})
		}
	}
	return out
}

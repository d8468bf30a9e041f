package pythoncheck

import "sort"

// lines converts byte offsets in a source file to zero-based line and column pairs
type lines struct {
	size   int
	starts []int // starts are the offsets of the first byte of each line
}

func newLines(src []byte) *lines {
	l := &lines{size: len(src), starts: []int{0}}
	for i, c := range src {
		if c == '\n' {
			l.starts = append(l.starts, i+1)
		}
	}
	return l
}

// lineCol clamps offset to the source, so a newline belongs to the line it ends
func (l *lines) lineCol(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > l.size {
		offset = l.size
	}
	line = sort.Search(len(l.starts)-1, func(i int) bool { return offset < l.starts[i+1] })
	return line, offset - l.starts[line]
}

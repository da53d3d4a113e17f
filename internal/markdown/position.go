package markdown

import "github.com/dgallion1/mdtrack/internal/track"

// lineIndex converts byte offsets in the source to 1-indexed line/column
// coordinates. goldmark reports block spans as byte segments; the track model
// wants line/column.
type lineIndex struct {
	src    []byte
	starts []int // byte offset of the start of each line
}

func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{src: src, starts: starts}
}

// locate maps a byte offset to 1-indexed (line, column). An offset one past
// the end of a line maps to that line's exclusive end column.
func (x *lineIndex) locate(off int) (line, col int) {
	lo, hi := 0, len(x.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if x.starts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, off - x.starts[lo] + 1
}

// markerStart walks back from a content offset to the first non-blank byte of
// its line. goldmark segments begin after the block marker ("# ", "- ",
// "1. "); positions are recorded from the marker itself. The walk stays on
// the content's own line: a list item whose text starts on the line after a
// bare marker ("-\n  text") records its start at the text, not the marker.
func (x *lineIndex) markerStart(off int) int {
	line, _ := x.locate(off)
	i := x.starts[line-1]
	for i < off && (x.src[i] == ' ' || x.src[i] == '\t') {
		i++
	}
	return i
}

// position builds a closed Position from a content span. The end offset is
// trimmed of any trailing newline so the end column stays on the last content
// line.
func (x *lineIndex) position(start, stop int) track.Position {
	start = x.markerStart(start)
	for stop > start && (x.src[stop-1] == '\n' || x.src[stop-1] == '\r') {
		stop--
	}
	line, col := x.locate(start)
	endLine, endCol := x.locate(stop)
	return track.Position{Line: line, Column: col, EndLine: endLine, EndColumn: endCol}
}

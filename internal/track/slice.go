package track

import (
	"errors"
	"fmt"
	"strings"
)

// Structural slice-extraction errors. All indicate a mismatch between the
// recorded position and the current text; the caller should re-parse to get
// fresh positions rather than retry.
var (
	ErrMissingEndPosition   = errors.New("position has no end line/column")
	ErrStartLineOutOfBounds = errors.New("start line out of bounds")
	ErrEndLineOutOfBounds   = errors.New("end line out of bounds")
	ErrEndBeforeStart       = errors.New("end line before start line")
	ErrColumnOutOfBounds    = errors.New("column out of bounds")
)

// ExtractSlice returns the exact substring of source spanned by pos: start
// inclusive, end column exclusive. It is a pure function of its inputs and
// performs no validation of what the text looks like — stale positions that
// are still in bounds return whatever text now occupies the span.
func ExtractSlice(source string, pos Position) (string, error) {
	if !pos.Closed() {
		return "", fmt.Errorf("%w: line %d, column %d", ErrMissingEndPosition, pos.Line, pos.Column)
	}

	lines := strings.Split(source, "\n")

	if pos.Line < 1 || pos.Line > len(lines) {
		return "", fmt.Errorf("%w: line %d of %d", ErrStartLineOutOfBounds, pos.Line, len(lines))
	}
	if pos.EndLine < 1 || pos.EndLine > len(lines) {
		return "", fmt.Errorf("%w: line %d of %d", ErrEndLineOutOfBounds, pos.EndLine, len(lines))
	}
	if pos.EndLine < pos.Line {
		return "", fmt.Errorf("%w: %d < %d", ErrEndBeforeStart, pos.EndLine, pos.Line)
	}

	startLine := lines[pos.Line-1]
	endLine := lines[pos.EndLine-1]
	startCol := pos.Column - 1
	endCol := pos.EndColumn - 1

	if startCol < 0 || startCol > len(startLine) {
		return "", fmt.Errorf("%w: column %d on line %d (length %d)", ErrColumnOutOfBounds, pos.Column, pos.Line, len(startLine))
	}
	if endCol < 0 || endCol > len(endLine) {
		return "", fmt.Errorf("%w: end column %d on line %d (length %d)", ErrColumnOutOfBounds, pos.EndColumn, pos.EndLine, len(endLine))
	}

	if pos.Line == pos.EndLine {
		if endCol < startCol {
			return "", fmt.Errorf("%w: end column %d before column %d", ErrColumnOutOfBounds, pos.EndColumn, pos.Column)
		}
		return startLine[startCol:endCol], nil
	}

	parts := make([]string, 0, pos.EndLine-pos.Line+1)
	parts = append(parts, startLine[startCol:])
	parts = append(parts, lines[pos.Line:pos.EndLine-1]...)
	parts = append(parts, endLine[:endCol])
	return strings.Join(parts, "\n"), nil
}

package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-escrow/internal/entity"
)

// Result is the terminal classification of a board.
type Result int

const (
	ResultNone Result = iota
	ResultWin
	ResultDraw
)

func (that Result) String() string {
	switch that {
	case ResultWin:
		return "win"
	case ResultDraw:
		return "draw"
	default:
		return "none"
	}
}

// WinningLines are the rows, columns and diagonals, in evaluation order.
var WinningLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Outcome is what Detect found. Mark and Line are set only for ResultWin.
type Outcome struct {
	Result Result
	Mark   entity.Mark
	Line   [3]int
}

// Detect checks the board after an accepted move.
// The first completed line in WinningLines wins; a full count of moves without one is a draw.
func Detect(board entity.Board, turnCount int) Outcome {
	for _, line := range WinningLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.Empty && a == b && b == c {
			return Outcome{Result: ResultWin, Mark: a, Line: line}
		}
	}

	if turnCount >= entity.BoardSize {
		return Outcome{Result: ResultDraw}
	}

	return Outcome{Result: ResultNone}
}

// Rows returns the winning lines in canonical 1-based positions, e.g. "1,2,3".
func Rows() []string {
	rows := make([]string, 0, len(WinningLines))
	for _, line := range WinningLines {
		rows = append(rows, fmt.Sprintf("%d,%d,%d", line[0]+1, line[1]+1, line[2]+1))
	}

	return rows
}

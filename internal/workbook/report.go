package workbook

import (
	"fmt"
	"io"

	"github.com/extrame/xls"
)

// Grid is read access to one sheet of a report workbook, addressed by
// zero-based row and column. Out-of-range reads return "".
type Grid interface {
	MaxRow() int
	Cell(row, col int) string
}

// Book is an open report workbook with sheets addressable by name.
type Book interface {
	Sheet(name string) (Grid, bool)
	Close() error
}

// OpenReport opens a legacy binary report workbook (.xls). The returned
// Book must be closed; the BIFF reader holds the file handle open.
func OpenReport(path string) (Book, error) {
	wb, closer, err := xls.OpenWithCloser(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open report workbook: %w", err)
	}
	return &xlsBook{wb: wb, closer: closer}, nil
}

type xlsBook struct {
	wb     *xls.WorkBook
	closer io.Closer
}

func (b *xlsBook) Sheet(name string) (Grid, bool) {
	for i := 0; i < b.wb.NumSheets(); i++ {
		if ws := b.wb.GetSheet(i); ws != nil && ws.Name == name {
			return &xlsGrid{ws: ws}, true
		}
	}
	return nil, false
}

func (b *xlsBook) Close() error {
	if b.closer != nil {
		return b.closer.Close()
	}
	return nil
}

type xlsGrid struct {
	ws *xls.WorkSheet
}

func (g *xlsGrid) MaxRow() int {
	return int(g.ws.MaxRow)
}

// Cell guards against the sparse row storage of the BIFF format: absent
// rows and columns outside a row's populated range read as "".
func (g *xlsGrid) Cell(row, col int) string {
	if row < 0 || col < 0 || row > int(g.ws.MaxRow) {
		return ""
	}
	r := g.ws.Row(row)
	if r == nil {
		return ""
	}
	if col < r.FirstCol() || col >= r.LastCol() {
		return ""
	}
	return r.Col(col)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/mattn/go-isatty"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(headers []string, rows [][]string, rightAligned ...int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, col := range rightAligned {
		configs = append(configs, table.ColumnConfig{
			Number:      col,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// writeRecords prints records as a table on a terminal and as JSON otherwise.
func writeRecords(w io.Writer, records []models.BookRecord) error {
	if !isTerminal(w) {
		return printJSON(w, records)
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Title, r.Author, r.PublishedDate, r.CatalogID})
	}
	_, err := fmt.Fprintln(w, renderTable([]string{"Title", "Author", "Published", "Catalog ID"}, rows))
	return err
}

func writeBooks(w io.Writer, books []models.Book) error {
	if !isTerminal(w) {
		return printJSON(w, books)
	}
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rating := ""
		if b.UserRating != nil {
			rating = strconv.Itoa(*b.UserRating)
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(b.ID), 10),
			b.Title,
			b.Author,
			strconv.FormatUint(uint64(b.BookshelfID), 10),
			strconv.Itoa(b.ShelfNumber),
			rating,
		})
	}
	_, err := fmt.Fprintln(w, renderTable([]string{"ID", "Title", "Author", "Bookshelf", "Shelf", "Rating"}, rows, 1, 4, 5, 6))
	return err
}

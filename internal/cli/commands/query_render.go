package commands

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/healthtrends/internal/cli/config"
	"github.com/leapstack-labs/healthtrends/internal/warehouse"
)

func renderResults(w io.Writer, rows *sql.Rows, format string) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	var results [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return err
		}

		for i, val := range values {
			if b, ok := val.([]byte); ok {
				values[i] = string(b)
			}
		}
		results = append(results, values)
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return renderRecords(w, cols, results, format)
}

// renderRecords writes rows in the table, json, csv or md format.
func renderRecords(w io.Writer, cols []string, results [][]any, format string) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, cols, results)
	case config.OutputCSV:
		newTableWriter(w, cols, results).RenderCSV()
		return nil
	case config.OutputMarkdown, "markdown":
		if len(results) == 0 {
			_, _ = fmt.Fprintln(w, "(0 rows)")
			return nil
		}
		newTableWriter(w, cols, results).RenderMarkdown()
		return nil
	default:
		return renderTable(w, cols, results)
	}
}

func newTableWriter(w io.Writer, cols []string, results [][]any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, result := range results {
		row := make(table.Row, len(result))
		for i, v := range result {
			row[i] = formatValue(v)
		}
		t.AppendRow(row)
	}
	return t
}

func renderTable(w io.Writer, cols []string, results [][]any) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	newTableWriter(w, cols, results).Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(results))
	return nil
}

func renderJSON(w io.Writer, cols []string, results [][]any) error {
	objects := make([]map[string]any, 0, len(results))
	for _, result := range results {
		obj := make(map[string]any, len(cols))
		for i, col := range cols {
			obj[col] = result[i]
		}
		objects = append(objects, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

func renderTableList(w io.Writer, names []string, format string) error {
	results := make([][]any, len(names))
	for i, n := range names {
		results[i] = []any{n}
	}
	return renderRecords(w, []string{"name"}, results, format)
}

func renderSchema(w io.Writer, meta *warehouse.Metadata, format string) error {
	if format == config.OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}

	_, _ = fmt.Fprintf(w, "Table: %s.%s (%d rows)\n", meta.Schema, meta.Name, meta.RowCount)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Type", "Nullable"})
	for _, col := range meta.Columns {
		nullable := "NO"
		if col.Nullable {
			nullable = "YES"
		}
		t.AppendRow(table.Row{col.Name, col.Type, nullable})
	}
	t.Render()
	return nil
}

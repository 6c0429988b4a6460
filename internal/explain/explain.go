// Package explain renders the configuration summary: one table per section
// contrasting each key's effective value with its default.
package explain

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/olekukonko/tablewriter"

	"rknnc/internal/config"
)

// Header is the column set of every section table.
var Header = []string{"Key", "Value", "Default", "Set by User?", "Description"}

// Row is one report line.
type Row struct {
	Key         string
	Value       string
	Default     string
	SetByUser   bool
	Description string
}

// Strings returns the row as table cells.
func (r Row) Strings() []string {
	set := "No"
	if r.SetByUser {
		set = "Yes"
	}
	return []string{r.Key, r.Value, r.Default, set, r.Description}
}

// Rows pairs live fields with the default fields of the same section. Order
// follows live, which is the section's declared field order.
func Rows(live, def []config.Field) []Row {
	defaults := make(map[string]any, len(def))
	for _, f := range def {
		defaults[f.Name] = f.Value
	}
	rows := make([]Row, 0, len(live))
	for _, f := range live {
		d := defaults[f.Name]
		rows = append(rows, Row{
			Key:         f.Name,
			Value:       Format(f.Value),
			Default:     Format(d),
			SetByUser:   !reflect.DeepEqual(f.Value, d),
			Description: f.Description,
		})
	}
	return rows
}

// SectionRows reports one section against its canonical defaults.
func SectionRows(s config.Section) []Row {
	return Rows(s.Fields(), config.DefaultsFor(s).Fields())
}

// Format renders a field value: strings as raw text, unset as null, anything
// else in its JSON form (maps with sorted keys).
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// Write prints the summary banner and the section tables in report order.
func Write(w io.Writer, cfg config.Configuration) error {
	if _, err := fmt.Fprintln(w, "[Configuration Summary]"); err != nil {
		return err
	}
	for _, s := range cfg.Sections() {
		if _, err := fmt.Fprintf(w, "\n[%s]\n", s.SectionName()); err != nil {
			return err
		}
		renderTable(w, SectionRows(s))
	}
	return nil
}

func renderTable(w io.Writer, rows []Row) {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, r.Strings())
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(Header)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.AppendBulk(data)
	table.Render()
}

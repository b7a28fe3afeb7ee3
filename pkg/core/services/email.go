package services

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ashwinpillai/duty-roster/pkg/grid"
)

const scheduleEmailTemplate = `<html>
<body style="font-family: Arial, sans-serif;">
<h2>{{.Department}} duty roster: {{.Start}} to {{.End}}</h2>
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
  <tr>
    <th>Date</th>
    {{- range .DutyNames}}
    <th>{{.}}</th>
    {{- end}}
  </tr>
  {{- range .Rows}}
  <tr>
    <td>{{.Day}}</td>
    {{- range .Cells}}
    <td>{{.}}</td>
    {{- end}}
  </tr>
  {{- end}}
</table>
<p>Overrides are marked with *, proxy cover is shown in brackets.</p>
</body>
</html>`

type emailRow struct {
	Day   string
	Cells []string
}

type emailView struct {
	Department string
	Start      string
	End        string
	DutyNames  []string
	Rows       []emailRow
}

var scheduleTmpl = template.Must(template.New("schedule").Parse(scheduleEmailTemplate))

// renderScheduleEmail renders the window grid as an HTML table, one row
// per day and one column per duty.
func renderScheduleEmail(g *grid.Grid, department string) (string, error) {
	view := emailView{
		Department: department,
		Start:      g.Start.Format("Jan 2 2006"),
		End:        g.End.Format("Jan 2 2006"),
	}
	for _, duty := range g.Duties {
		view.DutyNames = append(view.DutyNames, duty.Name)
	}

	for _, day := range g.Days {
		row := emailRow{Day: day.Format("Mon Jan 2")}
		for _, duty := range g.Duties {
			row.Cells = append(row.Cells, formatCells(g.Cells(day, duty.ID)))
		}
		view.Rows = append(view.Rows, row)
	}

	var sb strings.Builder
	if err := scheduleTmpl.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("failed to render schedule email: %w", err)
	}
	return sb.String(), nil
}

// formatCells flattens a slot's cells to display text. An empty slot
// renders as a dash so gaps are visible in the table.
func formatCells(cells []grid.Cell) string {
	if len(cells) == 0 {
		return "-"
	}

	parts := make([]string, len(cells))
	for i, cell := range cells {
		text := cell.DoctorName
		if cell.ProxyUsed {
			text = fmt.Sprintf("%s (proxy: %s)", cell.DoctorName, cell.ProxyName)
		}
		if cell.Override {
			text += " *"
		}
		parts[i] = text
	}
	return strings.Join(parts, ", ")
}

func emailSubject(department string, start, end time.Time) string {
	return fmt.Sprintf("%s duty roster %s to %s",
		department, start.Format("Jan 2"), end.Format("Jan 2 2006"))
}

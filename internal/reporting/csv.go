package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders per-cause model metrics as CSV string.
func RenderCSV(rows []CauseMetricRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("root_cause,precision,recall,f1,support\n")

	// Rows
	for _, m := range rows {
		sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f,%.6f,%d\n",
			m.Cause, m.Precision, m.Recall, m.F1, m.Support))
	}

	return sb.String()
}

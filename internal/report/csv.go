package report

import "strings"

var csvHeader = []string{"categoria", "valor", "detalhe", "dataHora"}

// EncodeCSV renders rows with every field quoted and lines joined by "\n".
// There is no trailing newline.
func EncodeCSV(rows []Row) []byte {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, csvLine(csvHeader))
	for _, r := range rows {
		lines = append(lines, csvLine([]string{r.Category, r.Value, r.Detail, r.Timestamp}))
	}
	return []byte(strings.Join(lines, "\n"))
}

func csvLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

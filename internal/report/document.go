package report

import (
	"bytes"
	"html/template"
)

// printTemplate is a standalone page that opens the print dialog on load.
var printTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Relatório dIA</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; color: #222; }
h1 { font-size: 20px; margin-bottom: 4px; }
p.meta { color: #555; margin: 0 0 16px 0; }
table { width: 100%; border-collapse: collapse; font-size: 13px; }
th, td { border: 1px solid #ccc; padding: 6px 8px; text-align: left; }
th { background: #f2f2f2; }
.empty { text-align: center; color: #777; }
.nowrap { white-space: nowrap; }
</style>
</head>
<body>
<h1>Relatório dIA — Exportar dados</h1>
<p class="meta"><strong>Período:</strong> {{.Start}} a {{.End}} · <strong>Categorias:</strong> {{.Categories}}</p>
<table>
<thead>
<tr><th>Categoria</th><th>Valor</th><th>Detalhe</th><th>Data/Hora</th></tr>
</thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.Category}}</td><td>{{.Value}}</td><td>{{.Detail}}</td><td class="nowrap">{{.Timestamp}}</td></tr>
{{- else}}
<tr><td class="empty" colspan="4">Sem dados no período</td></tr>
{{- end}}
</tbody>
</table>
<script>window.onload = function() { window.print(); };</script>
</body>
</html>
`))

type documentData struct {
	Start      string
	End        string
	Categories string
	Rows       []Row
}

// RenderDocument renders rows as a printable HTML document. Values are
// escaped by html/template.
func RenderDocument(rows []Row, rng Range, cats []Category) ([]byte, error) {
	loc := rng.Location()
	data := documentData{
		Start:      rng.Start.In(loc).Format(dateLayout),
		End:        rng.End.In(loc).Format(dateLayout),
		Categories: categoryLabels(cats),
		Rows:       rows,
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

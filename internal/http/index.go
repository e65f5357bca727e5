package http

const indexHTML = `<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>Журнал решений</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 4px 8px; }
</style>
</head>
<body>
<h1>Журнал решений</h1>
<table>
<tr><th>ID</th><th>Время</th><th>Редкость</th><th>Комплект</th><th>Тип</th><th>Уровень</th><th>Оценка</th><th>Расчетная</th><th>Решение</th><th>Причина</th></tr>
{{range .Records}}
<tr>
<td>{{.ID}}</td>
<td>{{.CreatedAt.Format "2006-01-02 15:04:05"}}</td>
<td>{{.Rarity}}</td>
<td>{{.Set}}</td>
<td>{{.Type}}</td>
<td>+{{.Level}}</td>
<td>{{.Score}}</td>
<td>{{printf "%.1f" .ComputedScore}}</td>
<td>{{formatDecision .Decision}}</td>
<td>{{.Reason}}</td>
</tr>
{{else}}
<tr><td colspan="10">Записей нет</td></tr>
{{end}}
</table>
</body>
</html>
`

package report

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Project Status Report</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
      margin: 0;
      padding: 20px;
      background-color: #f0f2f5;
      color: #333;
    }
    h1, h2 {
      color: #172b4d;
      padding-bottom: 10px;
      border-bottom: 1px solid #dfe1e6;
    }
    h2 { margin-top: 40px; }

    .kanban-table {
      width: 100%;
      table-layout: fixed;
      border-collapse: collapse;
      margin-bottom: 20px;
    }
    .kanban-table th {
      background-color: #f4f5f7;
      font-weight: 600;
      color: #42526e;
      padding: 15px;
      text-align: left;
      border: 1px solid #dfe1e6;
    }
    .kanban-column {
      vertical-align: top;
      padding: 10px;
      border: 1px solid #dfe1e6;
    }
    .kanban-column > .kanban-card { margin-bottom: 15px; }
    .kanban-column > .kanban-card:last-child { margin-bottom: 0; }

    .kanban-card {
      background-color: #ffffff;
      border-radius: 5px;
      padding: 15px;
      box-shadow: 0 1px 3px rgba(0,0,0,0.12), 0 1px 2px rgba(0,0,0,0.24);
    }
    .card-title {
      font-weight: 600;
      margin-bottom: 10px;
    }
    .card-detail {
      font-size: 14px;
      color: #5e6c84;
      margin: 5px 0;
    }
    .card-detail strong { color: #42526e; }

    .tasks-table {
      width: 100%;
      border-collapse: collapse;
      margin-bottom: 20px;
      background-color: #fff;
    }
    .tasks-table th, .tasks-table td {
      border: 1px solid #ddd;
      padding: 12px;
      text-align: left;
    }
    .tasks-table th {
      background-color: #f2f2f2;
      color: #2c3e50;
    }
    .tasks-table tr:nth-child(even) { background-color: #f9f9f9; }

    @media print {
      body {
        margin: 0;
        padding: 0;
        size: A4 portrait;
        background-color: #fff;
      }
      h1 { page-break-after: avoid; }
      h2 {
        page-break-before: always;
        page-break-after: avoid;
      }
      h2:first-of-type { page-break-before: auto; }
      .kanban-table, .tasks-table { page-break-inside: auto; }
      .kanban-card {
        page-break-inside: avoid;
        box-shadow: none;
        border: 1px solid #ddd;
      }
    }
  </style>
</head>
<body>
  <h1>Project Status Report</h1>
  <p>Generated on: {{.GeneratedOn}}</p>

  <h2>Customers</h2>
  <table class="kanban-table">
    <thead><tr>{{range .CustomerCols}}<th>{{.Label}}</th>{{end}}</tr></thead>
    <tbody><tr>
      {{range .CustomerCols}}<td class="kanban-column">
        {{range .Cards}}<div class="kanban-card">
          <div class="card-title">{{orNA .CompanyName}}</div>
          <p class="card-detail"><strong>Next Steps:</strong> {{orNA .NextStepSummary}}</p>
          <p class="card-detail"><strong>Project Idea:</strong> {{orNA .InitialProjectIdea}}</p>
        </div>{{end}}
      </td>{{end}}
    </tr></tbody>
  </table>

  <h2>Stakeholders</h2>
  <table class="kanban-table">
    <thead><tr>{{range .StakeholderCols}}<th>{{.Label}}</th>{{end}}</tr></thead>
    <tbody><tr>
      {{range .StakeholderCols}}<td class="kanban-column">
        {{range .Cards}}<div class="kanban-card">
          <div class="card-title">{{orNA .Name}}</div>
          <p class="card-detail"><strong>Purpose:</strong> {{if .Purpose}}{{.Purpose}}{{else}}No purpose defined{{end}}</p>
          <p class="card-detail"><strong>Next Steps:</strong> {{if .NextStepSummary}}{{.NextStepSummary}}{{else}}No next step set{{end}}</p>
        </div>{{end}}
      </td>{{end}}
    </tr></tbody>
  </table>

  <h2>Projects</h2>
  <table class="kanban-table">
    <thead><tr>{{range .ProjectCols}}<th>{{.Label}}</th>{{end}}</tr></thead>
    <tbody><tr>
      {{range .ProjectCols}}<td class="kanban-column">
        {{range .Cards}}<div class="kanban-card">
          <div class="card-title">{{orNA .Name}}</div>
          <p class="card-detail"><strong>Customer:</strong> {{orNA .Customer}}</p>
          <p class="card-detail"><strong>Process Step:</strong> {{orNA .ProcessStep}}</p>
          <p class="card-detail"><strong>Project Status:</strong> <span style="color: {{statusColor .Status}};">{{orNA .Status}}</span></p>
        </div>{{end}}
      </td>{{end}}
    </tr></tbody>
  </table>

  <h2>Tasks</h2>
  <table class="tasks-table">
    <thead>
      <tr>
        <th>Title</th>
        <th>Entity</th>
        <th>Responsible</th>
        <th>Planned End</th>
        <th>Status</th>
      </tr>
    </thead>
    <tbody>
      {{range .Tasks}}<tr>
        <td>{{if .Title}}{{.Title}}{{else}}No task title{{end}}</td>
        <td>{{if .EntityName}}{{.EntityName}}{{else}}No entity name{{end}}</td>
        <td>{{if .Responsible}}{{.Responsible}}{{else}}No person assigned{{end}}</td>
        <td>{{if .PlannedEnd}}{{.PlannedEnd}}{{else}}No deadline set{{end}}</td>
        <td>{{if .Status}}{{.Status}}{{else}}No Status{{end}}</td>
      </tr>{{end}}
    </tbody>
  </table>
</body>
</html>
`

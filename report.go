//go:build !js

package dolly

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FilmReport is the HTML record of one filmed run: the outcome, every
// recorded action, the frames and the captured views.
type FilmReport struct {
	Name      string
	Generated time.Time
	Result    StageResult
	Frames    []ReportFrame
	Views     []ReportView
}

// ReportFrame is one frame embedded in the report.
type ReportFrame struct {
	Label   string
	File    string
	DataURL template.URL
}

// ReportView is one captured view, converted to HTML.
type ReportView struct {
	At   time.Time
	Mode string
	HTML template.HTML
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}} - dolly film report</title>
<style>
body { font-family: sans-serif; background: #0d1117; color: #c9d1d9; margin: 2rem; }
.passed { color: #3fb950; } .failed { color: #f85149; }
pre { background: #161b22; padding: 1rem; overflow-x: auto; }
figure { display: inline-block; margin: 0 1rem 1rem 0; }
img { max-width: 560px; border: 1px solid #30363d; }
table { border-collapse: collapse; } td, th { padding: 0.2rem 0.8rem; text-align: left; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<p>{{if .Result.Success}}<strong class="passed">PASSED</strong>{{else}}<strong class="failed">FAILED</strong>{{end}}</p>
<p><strong>Duration:</strong> {{.Result.Duration}}</p>
<p><strong>Frames:</strong> {{len .Frames}} captured</p>
{{if .Result.ErrorMessage}}<pre class="failed">{{.Result.ErrorMessage}}</pre>{{end}}
<h2>Actions</h2>
<table>
<tr><th>time</th><th>type</th><th>details</th></tr>
{{range .Result.Actions}}<tr><td>{{.Timestamp.Format "15:04:05.000"}}</td><td>{{.Type}}</td><td>{{printf "%v" .Details}}</td></tr>
{{end}}</table>
{{if .Frames}}<h2>Frames</h2>
{{range .Frames}}<figure><img src="{{.DataURL}}" alt="{{.Label}}"><figcaption>{{.Label}}</figcaption></figure>
{{end}}{{end}}
{{if .Views}}<h2>Views</h2>
{{range .Views}}<h3>{{.At.Format "15:04:05.000"}} ({{.Mode}})</h3>
<pre>{{.HTML}}</pre>
{{end}}{{end}}
{{if .Result.TripReport}}<h2>Trips</h2>
<pre>{{.Result.TripReport}}</pre>{{end}}
<p><small>generated {{.Generated.Format "2006-01-02 15:04:05"}}</small></p>
</body>
</html>
`))

// NewFilmReport assembles a report from a finished run and its frames.
func NewFilmReport(name string, result StageResult, frames []string) (FilmReport, error) {
	report := FilmReport{
		Name:      name,
		Generated: time.Now(),
		Result:    result,
	}
	for _, file := range frames {
		url, err := imageDataURL(file)
		if err != nil {
			return FilmReport{}, err
		}
		report.Frames = append(report.Frames, ReportFrame{
			Label:   frameLabel(file),
			File:    file,
			DataURL: url,
		})
	}
	for _, snap := range result.Snapshots {
		report.Views = append(report.Views, ReportView{
			At:   snap.Timestamp,
			Mode: snap.Mode,
			HTML: viewHTML(snap.View),
		})
	}
	return report, nil
}

// WriteFile renders the report to path, creating its directory.
func (r FilmReport) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, r); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// WriteReport writes index.html for this operator's frames next to them and
// returns its path. Call it with the result of Stop.
func (op *Operator) WriteReport(name string, result StageResult) (string, error) {
	report, err := NewFilmReport(name, result, op.frames)
	if err != nil {
		return "", err
	}
	path := filepath.Join(op.filmDir, "index.html")
	if err := report.WriteFile(path); err != nil {
		return "", err
	}
	return path, nil
}

// frameLabel recovers the label from frame_NNN_<label>.png.
func frameLabel(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	parts := strings.SplitN(base, "_", 3)
	if len(parts) == 3 && parts[0] == "frame" {
		return parts[2]
	}
	return base
}

// imageDataURL reads an image and returns it as a base64 data URL.
func imageDataURL(path string) (template.URL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read frame: %w", err)
	}

	mimeType := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mimeType = "image/jpeg"
	case ".gif":
		mimeType = "image/gif"
	}
	return template.URL(fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))), nil
}

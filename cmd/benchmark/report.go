package main

import (
	"os"
	"time"

	"github.com/delaneyj/signalgraph/cmd/benchmark/templates"
)

// writeReport renders data as markdown into path. An empty path writes nothing.
func writeReport(path string, data *templates.ReportData) error {
	if path == "" {
		return nil
	}
	if data.Title == "" {
		data.Title = "signalgraph benchmark"
	}
	if data.Generated.IsZero() {
		data.Generated = time.Now().UTC()
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	templates.WriteMarkdownReport(f, data)
	return f.Close()
}

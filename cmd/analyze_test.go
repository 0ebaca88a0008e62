package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = "customer_id,revenue,won,campaign\n" +
	"C1,120.0,yes,Spring\n" +
	"C2,30.0,no,Summer\n" +
	"C3,95.5,won,Spring\n" +
	"C4,12.0,no,Summer\n"

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	return rootCmd.Execute()
}

func TestAnalyzeCommandWritesMarkdown(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "leads.csv")
	if err := os.WriteFile(in, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	out := filepath.Join(dir, "report.md")

	if err := runRoot(t, "analyze", in, "--output", out, "--no-model"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(b)
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Rows: 4",
		"- sales <- revenue",
		"Total sales: 257.50",
		"[INSIGHTS]",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q\n%s", want, md)
		}
	}
}

func TestAnalyzeCommandJSONOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "leads.csv")
	if err := os.WriteFile(in, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	out := filepath.Join(dir, "report.json")

	if err := runRoot(t, "analyze", in, "--output", out, "--json", "--no-model"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(b), `"total_sales": 257.5`) {
		t.Errorf("json output = %s", b)
	}
}

func TestAnalyzeCommandMissingFile(t *testing.T) {
	if err := runRoot(t, "analyze", filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatalf("expected error for missing input")
	}
}

func TestAnalyzeCommandRejectsBadDelimiter(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "leads.csv")
	if err := os.WriteFile(in, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	err := runRoot(t, "analyze", in, "--delimiter", "|")
	if err == nil || !strings.Contains(err.Error(), "unsupported --delimiter") {
		t.Fatalf("err = %v", err)
	}
}

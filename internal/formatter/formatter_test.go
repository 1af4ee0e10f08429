package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/rhymx/internal/models"
	"github.com/desertthunder/rhymx/internal/rhyme"
	"github.com/desertthunder/rhymx/internal/shared"
	th "github.com/desertthunder/rhymx/internal/testing"
)

const lyrics = "I walk down the street\nFeeling the heat\nMy cat\nWearing a hat"

func song() *models.SongExport {
	return &models.SongExport{
		Title:  "Street Song",
		Artist: "Nobody",
		Lyrics: lyrics,
		Rhymes: rhyme.Analyze(lyrics),
	}
}

func notFound() *models.SongExport {
	return &models.SongExport{
		Title:  "Missing",
		Artist: "Nobody",
		Lyrics: rhyme.Placeholder,
		Rhymes: rhyme.Analyze(rhyme.Placeholder),
	}
}

func TestParseFormat(t *testing.T) {
	tt := []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{"txt", FormatText},
		{"MD", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"csv", FormatCSV},
		{" json ", FormatJSON},
	}

	for _, tc := range tt {
		got, err := ParseFormat(tc.in)
		if err != nil {
			t.Fatalf("ParseFormat(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
}

func TestScheme(t *testing.T) {
	tt := []struct {
		name   string
		scheme []string
		want   string
	}{
		{"single letters", []string{"A", "A", "B", "B"}, "AABB"},
		{"unlabelled lines", []string{"A", "", "A"}, "A-A"},
		{"long labels are spaced", []string{"A", "AA", "", "A"}, "A AA - A"},
		{"empty", nil, ""},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := Scheme(tc.scheme); got != tc.want {
				t.Errorf("Scheme(%q) = %q, want %q", tc.scheme, got, tc.want)
			}
		})
	}
}

func TestFormatExt(t *testing.T) {
	for f, want := range map[Format]string{
		FormatText:     "txt",
		FormatMarkdown: "md",
		FormatCSV:      "csv",
		FormatJSON:     "json",
		"":             "txt",
	} {
		if got := f.Ext(); got != want {
			t.Errorf("%q.Ext() = %q, want %q", f, got, want)
		}
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(song())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Nobody - Street Song\n\n",
			"A  I walk down the street\n",
			"A  Feeling the heat\n",
			"B  My cat\n",
			"B  Wearing a hat\n",
			"Groups: 2\n",
			"A  street (1:5), heat (2:3)\n",
			"B  cat (3:2), hat (4:3)\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text output missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText without rhymes", func(t *testing.T) {
		data, err := ExportToText(notFound())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "-  not found\n") {
			t.Errorf("text output missing placeholder line, got:\n%s", output)
		}
		if !strings.Contains(output, "No rhymes found.") {
			t.Errorf("text output missing empty notice, got:\n%s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(song())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Nobody - Street Song\n",
			"**Scheme**: AABB\n",
			"**Groups**: 2\n",
			"I walk down the **street**<sup>A</sup>  \n",
			"Wearing a **hat**<sup>B</sup>  \n",
			"| A | `E|t` | street (1:5), heat (2:3) |\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("markdown output missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown without rhymes", func(t *testing.T) {
		data, err := ExportToMarkdown(notFound())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "**Groups**: 0") {
			t.Errorf("markdown missing group count, got:\n%s", output)
		}
		if strings.Contains(output, "## Groups") {
			t.Errorf("markdown should not have a groups table, got:\n%s", output)
		}
	})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(song())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("CSV did not parse: %v", err)
		}

		if len(records) != 5 {
			t.Fatalf("expected header and 4 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "Label,Key,Line,Index,Word" {
			t.Errorf("CSV missing headers, got %v", records[0])
		}
		if strings.Join(records[1], ",") != "A,E|t,1,5,street" {
			t.Errorf("unexpected first row %v", records[1])
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(song(), false)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			Title  string `json:"title"`
			Lyrics string `json:"lyrics"`
			Rhymes struct {
				Groups []rhyme.Group `json:"groups"`
				Scheme []string      `json:"scheme"`
			} `json:"rhymes"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("JSON did not parse: %v", err)
		}

		if decoded.Title != "Street Song" || decoded.Lyrics != lyrics {
			t.Errorf("unexpected song fields %+v", decoded)
		}
		if strings.Join(decoded.Rhymes.Scheme, "") != "AABB" {
			t.Errorf("unexpected scheme %v", decoded.Rhymes.Scheme)
		}
	})

	t.Run("ExportToJSON pretty", func(t *testing.T) {
		data, err := ExportToJSON(song(), true)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if !strings.Contains(string(data), "\n  \"lyrics\"") {
			t.Errorf("expected indented JSON, got %s", data)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("Write", func(t *testing.T) {
		var sb strings.Builder
		if err := Write(&sb, song(), FormatCSV, false); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if !strings.HasPrefix(sb.String(), "Label,Key") {
			t.Errorf("unexpected output %q", sb.String())
		}
	})

	t.Run("Write surfaces writer errors", func(t *testing.T) {
		if err := Write(&th.FWriter{}, song(), FormatText, false); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("Write rejects unknown formats", func(t *testing.T) {
		var sb strings.Builder
		if err := Write(&sb, song(), Format("xml"), false); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("WriteFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "song.md")
		if err := WriteFile(path, song(), FormatMarkdown, false); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		if !strings.HasPrefix(content, "# Nobody - Street Song") {
			t.Errorf("unexpected file content:\n%s", content)
		}
	})

	t.Run("WriteFile to missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "song.txt")
		if err := WriteFile(path, song(), FormatText, false); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

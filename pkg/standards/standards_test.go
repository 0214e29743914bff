package standards

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sciviz/figlint/pkg/errors"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		journal string
		want    string
		wantErr bool
	}{
		{"Canonical", "nature", "Nature", false},
		{"Alias", "nat", "Nature", false},
		{"CaseInsensitive", "Nature Communications", "Nature Communications", false},
		{"Hyphenated", "nat-comm", "Nature Communications", false},
		{"Science", "science", "Science", false},
		{"Default", "default", "Default", false},
		{"Unknown", "journal-of-nope", "", true},
		{"Empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Lookup(tt.journal)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.journal, err, tt.wantErr)
			}
			if err == nil && s.Name != tt.want {
				t.Errorf("Lookup(%q).Name = %q, want %q", tt.journal, s.Name, tt.want)
			}
		})
	}
}

func TestLookupUnknownCode(t *testing.T) {
	_, err := Lookup("journal-of-nope")
	if !errors.Is(err, errors.ErrCodeUnknownJournal) {
		t.Errorf("error code = %v, want UNKNOWN_JOURNAL", errors.GetCode(err))
	}
}

func TestNearestWidth(t *testing.T) {
	nature, err := Lookup("nature")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		width float64
		want  float64
	}{
		{3.4, 3.5},
		{4.0, 3.5},
		{5.0, 5.5},
		{6.8, 7.0},
		{100, 7.0},
	}

	for _, tt := range tests {
		if got := nature.NearestWidth(tt.width); got != tt.want {
			t.Errorf("NearestWidth(%g) = %g, want %g", tt.width, got, tt.want)
		}
	}
}

func TestScienceNarrowerThanNature(t *testing.T) {
	nature, _ := Lookup("nature")
	science, _ := Lookup("science")
	if science.WidthSingle >= nature.WidthSingle {
		t.Errorf("Science single column %g should be narrower than Nature %g",
			science.WidthSingle, nature.WidthSingle)
	}
}

func TestList(t *testing.T) {
	names := List()
	if len(names) < 8 {
		t.Fatalf("List returned %d standards, want at least 8", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("List not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestRegisterShadowsBuiltin(t *testing.T) {
	custom := Standard{
		Name:        "House Style",
		WidthSingle: 4.0, WidthOneHalf: 6.0, WidthDouble: 8.0, MaxHeight: 10.0,
		DPIMin: 150, FontMin: 6, FontMax: 16,
	}
	Register("house", custom)

	got, err := Lookup("house")
	if err != nil {
		t.Fatalf("Lookup after Register failed: %v", err)
	}
	if got.Name != "House Style" {
		t.Errorf("Name = %q, want House Style", got.Name)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "standards.toml")
	content := `
[standards.lab_report]
name = "Lab Report"
width_single = 4.0
width_onehalf = 6.0
width_double = 8.0
max_height = 10.0
dpi_min = 150
font_min = 6.0
font_max = 16.0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if n != 1 {
		t.Errorf("loaded %d standards, want 1", n)
	}

	s, err := Lookup("lab_report")
	if err != nil {
		t.Fatalf("Lookup after LoadFile failed: %v", err)
	}
	if s.WidthSingle != 4.0 || s.DPIMin != 150 {
		t.Errorf("loaded standard = %+v", s)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{
			name: "NegativeWidth",
			content: `
[standards.bad]
width_single = -1.0
width_onehalf = 6.0
width_double = 8.0
max_height = 10.0
`,
		},
		{
			name: "SingleWiderThanDouble",
			content: `
[standards.bad]
width_single = 9.0
width_onehalf = 6.0
width_double = 8.0
max_height = 10.0
`,
		},
		{
			name:    "Garbage",
			content: "not [valid toml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Error("LoadFile succeeded, want error")
			}
		})
	}
}

package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/sciviz/figlint/pkg/audit"
	"github.com/sciviz/figlint/pkg/errors"
)

// WriteReport encodes an audit report as indented JSON. Issue order is
// the report's deterministic contract order, so two exports of the
// same audit diff cleanly.
func WriteReport(report audit.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode report")
	}
	return nil
}

// ExportReport writes a report to a JSON file at path.
func ExportReport(report audit.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer f.Close()
	return WriteReport(report, f)
}

// ReadReport decodes a report from r.
func ReadReport(r io.Reader) (audit.Report, error) {
	var report audit.Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return audit.Report{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode report")
	}
	return report, nil
}

// ImportReport reads a report file at path.
func ImportReport(path string) (audit.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return audit.Report{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadReport(f)
}

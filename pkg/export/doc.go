// Package export provides JSON import and export for scene dumps and
// audit reports.
//
// # Overview
//
// The scene dump format is the file-based entry point into the audit
// engine: plotting-tool bridges write a dump describing the figure's
// composition, and the CLI or API imports it into a normalized
// [scene.Figure]. The format is designed for:
//
//   - Decoupling the engine from any specific plotting library
//   - Round-trip preservation: import, fix, export, and re-import
//   - Caching of audit inputs under content-derived keys
//
// # Scene Format
//
// A dump is a JSON object with a "figure" record and a "panels" array:
//
//	{
//	  "figure": {"width": 7.0, "height": 4.0, "dpi": 300},
//	  "panels": [
//	    {
//	      "bbox": {"x": 0, "y": 0.5, "w": 3.5, "h": 3.0},
//	      "title": "A",
//	      "elements": [
//	        {"kind": "data_series", "bbox": {"x": 0.2, "y": 0.2, "w": 3.0, "h": 2.0},
//	         "style": {"color": "#0072B2"}}
//	      ]
//	    }
//	  ]
//	}
//
// Element bboxes are panel-local: (0, 0) is the owning panel's
// lower-left corner. Import normalizes them into figure coordinates
// and validates the scene invariants; export converts back, so a
// re-exported dump matches what a bridge would have written.
//
// # Import
//
// Use [ImportScene] to read a dump from a file path, or [ReadScene] to
// read from any io.Reader:
//
//	fig, err := export.ImportScene("figure.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate geometry through [scene.Build]; malformed
// dumps fail with an INVALID_SCENE error naming the offending panel or
// element.
//
// # Reports
//
// [WriteReport] and [ReadReport] serialize audit reports with stable
// field order for diffing and archival.
package export

// Package changelog turns conventional commit messages into Keep a Changelog
// sections and splices them into an existing CHANGELOG.md document.
//
// This package implements:
//   - Conventional commit header parsing and category classification
//   - Grouping of commit subjects into ordered Added/Changed/Fixed/
//     Documentation/Security sections
//   - Extraction and replacement of the [Unreleased] region of a document
//   - Release promotion of the [Unreleased] region into a dated heading
//   - Terminal and YAML presentation of generated entries
//
// Everything except the presentation helpers is pure string processing:
// callers supply commit subjects and document text, and get new text back.
package changelog

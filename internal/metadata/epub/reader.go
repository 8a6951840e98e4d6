// Package epub reads and writes EPUB metadata through the OPF package
// document. Reads open the archive directly; writes rewrite the OPF and
// repack the archive, leaving every other entry byte-for-byte intact.
package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/shelfmark/shelfmark/internal/book"
)

// Reader extracts EPUB metadata from the OPF document. Fill-only: fields
// already set on the record are left alone.
type Reader struct{}

// NewReader returns the EPUB metadata reader.
func NewReader() *Reader {
	return &Reader{}
}

// Supports reports whether the record is an EPUB file.
func (r *Reader) Supports(rec *book.Record) bool {
	return strings.EqualFold(rec.Extension, "epub")
}

// Read opens the archive, locates the OPF package document and fills every
// empty metadata field it can. Archive or markup failures are recorded as
// diagnostics and leave the record otherwise unchanged.
func (r *Reader) Read(rec book.Record) book.Record {
	out := rec.Clone()

	_, data, err := readOPF(out.Path)
	if err != nil {
		out.AddError(fmt.Sprintf("epub read error: %v", err))
		return out
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		out.AddError(fmt.Sprintf("epub read error: %v", err))
		return out
	}
	meta := metadataElement(doc.Root())
	if meta == nil {
		out.AddError("epub read error: no metadata element in OPF")
		return out
	}

	r.readTitles(meta, &out)

	if len(out.Authors) == 0 {
		for _, el := range dcElements(meta, "creator") {
			if text := strings.TrimSpace(el.Text()); text != "" {
				out.Authors = append(out.Authors, text)
			}
		}
	}

	if out.Description == "" {
		if el := firstDC(meta, "description"); el != nil {
			out.Description = strings.TrimSpace(el.Text())
		}
	}

	if len(out.Tags) == 0 {
		for _, el := range dcElements(meta, "subject") {
			if text := strings.TrimSpace(el.Text()); text != "" {
				out.Tags = append(out.Tags, text)
			}
		}
	}

	if out.Language == "" {
		if el := firstDC(meta, "language"); el != nil {
			out.Language = strings.TrimSpace(el.Text())
		}
	}

	if out.Publisher == "" {
		if el := firstDC(meta, "publisher"); el != nil {
			out.Publisher = strings.TrimSpace(el.Text())
		}
	}

	if out.Published.IsZero() {
		if el := firstDC(meta, "date"); el != nil {
			if parsed, ok := parseDate(strings.TrimSpace(el.Text())); ok {
				out.Published = parsed
				if out.Year == 0 {
					out.Year = parsed.Year()
				}
			}
		}
	}

	for _, el := range dcElements(meta, "identifier") {
		value := strings.TrimSpace(el.Text())
		digits := strings.ReplaceAll(value, "-", "")
		switch {
		case out.ISBN13 == "" && len(digits) == 13 && isDigits(digits):
			out.ISBN13 = value
		case out.ISBN10 == "" && len(digits) == 10 && isDigits(digits):
			out.ISBN10 = value
		}
	}

	r.readCalibreSeries(meta, &out)

	if out.Source == "" {
		out.Source = "file"
	}
	return out
}

// readTitles distinguishes the subtitle from the main title through EPUB 3
// title-type refinements. Without refinement metadata every dc:title is a
// candidate for the main title only.
func (r *Reader) readTitles(meta *etree.Element, out *book.Record) {
	titleTypes := map[string]string{}
	for _, el := range metaElements(meta) {
		if el.SelectAttrValue("property", "") != "title-type" {
			continue
		}
		if refines := el.SelectAttrValue("refines", ""); strings.HasPrefix(refines, "#") {
			titleTypes[refines[1:]] = strings.TrimSpace(el.Text())
		}
	}

	var mainTitle, subtitle string
	for _, el := range dcElements(meta, "title") {
		value := strings.TrimSpace(el.Text())
		if value == "" {
			continue
		}
		if titleTypes[el.SelectAttrValue("id", "")] == "subtitle" {
			if subtitle == "" {
				subtitle = value
			}
		} else if mainTitle == "" {
			mainTitle = value
		}
	}

	if out.Title == "" && mainTitle != "" {
		out.Title = mainTitle
	}
	if out.Subtitle == "" && subtitle != "" {
		out.Subtitle = subtitle
	}
}

func (r *Reader) readCalibreSeries(meta *etree.Element, out *book.Record) {
	if out.Series != "" && out.SeriesIndex != 0 {
		return
	}
	for _, el := range metaElements(meta) {
		name := el.SelectAttrValue("name", "")
		content := el.SelectAttrValue("content", "")
		switch {
		case name == "calibre:series" && out.Series == "":
			out.Series = content
		case name == "calibre:series_index" && out.SeriesIndex == 0:
			if f, err := strconv.ParseFloat(content, 64); err == nil {
				out.SeriesIndex = int(f)
			}
		}
	}
}

// parseDate handles the three granularities EPUB dates come in: YYYY,
// YYYY-MM and YYYY-MM-DD, defaulting month and day to 1.
func parseDate(value string) (time.Time, bool) {
	var y, m, d int
	m, d = 1, 1
	var err error
	switch len(value) {
	case 4:
		y, err = strconv.Atoi(value)
	case 7:
		_, err = fmt.Sscanf(value, "%d-%d", &y, &m)
	case 10:
		_, err = fmt.Sscanf(value, "%d-%d-%d", &y, &m, &d)
	default:
		return time.Time{}, false
	}
	if err != nil || y == 0 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

// readOPF scans the archive listing for the package document.
func readOPF(path string) (name string, data []byte, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", nil, err
	}
	defer zr.Close()

	f := findOPF(&zr.Reader)
	if f == nil {
		return "", nil, fmt.Errorf("OPF not found")
	}
	rc, err := f.Open()
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()
	data, err = io.ReadAll(rc)
	if err != nil {
		return "", nil, err
	}
	return f.Name, data, nil
}

func findOPF(zr *zip.Reader) *zip.File {
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".opf") {
			return f
		}
	}
	return nil
}

func metadataElement(root *etree.Element) *etree.Element {
	if root == nil {
		return nil
	}
	for _, el := range root.ChildElements() {
		if el.Tag == "metadata" {
			return el
		}
	}
	return nil
}

func dcElements(meta *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, el := range meta.ChildElements() {
		if el.Space == "dc" && el.Tag == tag {
			out = append(out, el)
		}
	}
	return out
}

func firstDC(meta *etree.Element, tag string) *etree.Element {
	for _, el := range meta.ChildElements() {
		if el.Space == "dc" && el.Tag == tag {
			return el
		}
	}
	return nil
}

func metaElements(meta *etree.Element) []*etree.Element {
	var out []*etree.Element
	for _, el := range meta.ChildElements() {
		if el.Tag == "meta" {
			out = append(out, el)
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

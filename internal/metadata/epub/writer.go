package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/shelfmark/shelfmark/internal/book"
	"github.com/shelfmark/shelfmark/internal/metadata"
)

// Writer rewrites the OPF package document and repacks the archive. Every
// entry except the OPF is copied raw, so the rest of the book stays
// byte-for-byte identical; the new archive replaces the original with a
// single rename so a crash never leaves a half-written container behind.
type Writer struct{}

// NewWriter returns the EPUB metadata writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Extensions lists the container extensions this writer handles.
func (w *Writer) Extensions() []string {
	return []string{"epub"}
}

// Write commits the record into the EPUB at its path.
func (w *Writer) Write(rec book.Record) metadata.WriteResult {
	zr, err := zip.OpenReader(rec.Path)
	if err != nil {
		return fail("epub: %v", err)
	}
	defer zr.Close()

	opf := findOPF(&zr.Reader)
	if opf == nil {
		return fail("epub: OPF not found")
	}
	rc, err := opf.Open()
	if err != nil {
		return fail("epub: %v", err)
	}
	opfData, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fail("epub: %v", err)
	}

	rewritten, err := w.rewriteOPF(opfData, &rec)
	if err != nil {
		return fail("epub: %v", err)
	}

	tmp := rec.Path + ".tmp"
	if err := w.repack(&zr.Reader, opf.Name, rewritten, tmp); err != nil {
		os.Remove(tmp)
		return fail("epub: %v", err)
	}
	if err := os.Rename(tmp, rec.Path); err != nil {
		os.Remove(tmp)
		return fail("epub: %v", err)
	}
	return metadata.WriteResult{Success: true}
}

// repack writes a new archive next to the original: the rewritten OPF is
// recompressed, everything else is copied raw so compressed bytes and
// checksums carry over unchanged.
func (w *Writer) repack(zr *zip.Reader, opfName string, opfData []byte, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(out)

	for _, f := range zr.File {
		if f.Name == opfName {
			entry, err := zw.CreateHeader(&zip.FileHeader{
				Name:     f.Name,
				Method:   zip.Deflate,
				Modified: f.Modified,
			})
			if err == nil {
				_, err = entry.Write(opfData)
			}
			if err != nil {
				zw.Close()
				out.Close()
				return err
			}
			continue
		}

		rd, err := f.OpenRaw()
		if err != nil {
			zw.Close()
			out.Close()
			return err
		}
		hdr := f.FileHeader
		entry, err := zw.CreateRaw(&hdr)
		if err == nil {
			_, err = io.Copy(entry, rd)
		}
		if err != nil {
			zw.Close()
			out.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (w *Writer) rewriteOPF(data []byte, rec *book.Record) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("OPF has no root element")
	}
	meta := metadataElement(root)
	if meta == nil {
		return nil, fmt.Errorf("no metadata element in OPF")
	}
	version := root.SelectAttrValue("version", "2.0")

	w.setTitle(meta, rec.Title, rec.Subtitle, version)
	w.setList(meta, "creator", rec.Authors)
	w.setText(meta, "language", rec.Language)
	w.setText(meta, "publisher", rec.Publisher)
	w.setDescription(meta, rec)
	w.setList(meta, "subject", rec.Tags)

	if !rec.Published.IsZero() {
		w.setText(meta, "date", rec.Published.Format("2006-01-02"))
	}

	w.setIdentifier(meta, "ISBN-10", rec.ISBN10)
	w.setIdentifier(meta, "ISBN-13", rec.ISBN13)
	w.setMeta(meta, "asin", rec.ASIN)

	if rec.Series != "" {
		w.setMeta(meta, "belongs-to-collection", rec.Series)
		if rec.SeriesIndex != 0 {
			w.setMeta(meta, "group-position", strconv.Itoa(rec.SeriesIndex))
		}
		if rec.SeriesTotal != 0 {
			w.setMeta(meta, "collection-total", strconv.Itoa(rec.SeriesTotal))
		}
	}

	return doc.WriteToBytes()
}

// setTitle bifurcates on the package version. EPUB 3 gets a dedicated
// subtitle element refined by title-type; EPUB 2 has no refinement
// vocabulary, so title and subtitle merge into a single dc:title.
func (w *Writer) setTitle(meta *etree.Element, title, subtitle, version string) {
	if title == "" && subtitle == "" {
		return
	}

	for _, el := range dcElements(meta, "title") {
		meta.RemoveChild(el)
	}
	for _, el := range metaElements(meta) {
		if el.SelectAttrValue("property", "") == "title-type" {
			refines := el.SelectAttrValue("refines", "")
			if refines == "#subtitle" || refines == "#main-title" {
				meta.RemoveChild(el)
			}
		}
	}

	if strings.HasPrefix(version, "3") {
		if title != "" {
			el := createDC(meta, "title")
			el.CreateAttr("id", "main-title")
			el.SetText(title)
		}
		if subtitle != "" {
			el := createDC(meta, "title")
			el.CreateAttr("id", "subtitle")
			el.SetText(subtitle)

			refines := meta.CreateElement("meta")
			refines.CreateAttr("refines", "#subtitle")
			refines.CreateAttr("property", "title-type")
			refines.SetText("subtitle")
		}
		return
	}

	combined := title
	if subtitle != "" {
		if combined != "" {
			combined += ": " + subtitle
		} else {
			combined = subtitle
		}
	}
	createDC(meta, "title").SetText(combined)
}

// setDescription composes the description text together with the
// original-work lines, when the original differs from the edition.
func (w *Writer) setDescription(meta *etree.Element, rec *book.Record) {
	var parts []string
	if rec.Description != "" {
		parts = append(parts, rec.Description)
	}

	if orig := rec.Original; orig != nil {
		titleDiffers := orig.Title != "" && orig.Title != rec.Title
		authorsDiffer := len(orig.Authors) > 0 && !slices.Equal(orig.Authors, rec.Authors)
		if titleDiffers || authorsDiffer {
			var block []string
			if orig.Title != "" {
				block = append(block, "Original title: "+orig.Title)
			}
			if orig.Language != "" {
				block = append(block, "Original language: "+orig.Language)
			}
			if len(orig.Authors) > 0 {
				block = append(block, "Original authors: "+strings.Join(orig.Authors, ", "))
			}
			parts = append(parts, strings.Join(block, "\n"))
		}
	}

	if len(parts) == 0 {
		return
	}
	w.setText(meta, "description", strings.Join(parts, "\n\n"))
}

func (w *Writer) setText(meta *etree.Element, tag, value string) {
	if value == "" {
		return
	}
	el := firstDC(meta, tag)
	if el == nil {
		el = createDC(meta, tag)
	}
	el.SetText(value)
}

// setList fully replaces every element of the tag: partial patching of a
// list-valued field cannot express removals or reordering.
func (w *Writer) setList(meta *etree.Element, tag string, values []string) {
	if len(values) == 0 {
		return
	}
	for _, el := range dcElements(meta, tag) {
		meta.RemoveChild(el)
	}
	for _, v := range values {
		createDC(meta, tag).SetText(v)
	}
}

func (w *Writer) setIdentifier(meta *etree.Element, scheme, value string) {
	if value == "" {
		return
	}
	for _, el := range dcElements(meta, "identifier") {
		if el.SelectAttrValue("opf:scheme", "") == scheme {
			el.SetText(value)
			return
		}
	}
	el := createDC(meta, "identifier")
	el.CreateAttr("opf:scheme", scheme)
	el.SetText(value)
}

// setMeta stores a value as a property meta element, updated in place when
// one already exists.
func (w *Writer) setMeta(meta *etree.Element, property, value string) {
	if value == "" {
		return
	}
	for _, el := range metaElements(meta) {
		if el.SelectAttrValue("property", "") == property {
			el.SetText(value)
			return
		}
	}
	el := meta.CreateElement("meta")
	el.CreateAttr("property", property)
	el.SetText(value)
}

func createDC(meta *etree.Element, tag string) *etree.Element {
	return meta.CreateElement("dc:" + tag)
}

func fail(format string, args ...any) metadata.WriteResult {
	return metadata.WriteResult{Errors: []string{fmt.Sprintf(format, args...)}}
}

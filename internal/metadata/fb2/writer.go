package fb2

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/shelfmark/shelfmark/internal/book"
	"github.com/shelfmark/shelfmark/internal/metadata"
)

// Writer commits a record's fields into an FB2 document in place. Only the
// targeted elements are located or created; everything else in the tree is
// written back untouched.
type Writer struct{}

// NewWriter returns the FB2 metadata writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Extensions lists the container extensions this writer handles.
func (w *Writer) Extensions() []string {
	return []string{"fb2"}
}

// Write updates the FB2 document at the record's path.
func (w *Writer) Write(rec book.Record) metadata.WriteResult {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(rec.Path); err != nil {
		return fail("fb2: %v", err)
	}
	root := doc.Root()
	if root == nil {
		return fail("fb2: document has no root element")
	}
	n := detectNS(root)

	desc := n.find(root, "description")
	if desc == nil {
		return fail("fb2: no description element")
	}
	titleInfo := n.childOrCreate(desc, "title-info")

	if rec.Title != "" {
		n.childOrCreate(titleInfo, "book-title").SetText(rec.Title)
	}
	if rec.Subtitle != "" {
		n.childOrCreate(titleInfo, "subtitle").SetText(rec.Subtitle)
	}

	w.writeAuthors(n, titleInfo, rec.Authors)
	w.writeAnnotation(n, titleInfo, &rec)
	w.writeKeywords(n, titleInfo, rec.Tags)

	if rec.Series != "" {
		seq := n.childOrCreate(titleInfo, "sequence")
		seq.CreateAttr("name", rec.Series)
		if rec.SeriesIndex != 0 {
			seq.CreateAttr("number", strconv.Itoa(rec.SeriesIndex))
		}
	}

	if rec.Language != "" {
		n.childOrCreate(titleInfo, "lang").SetText(rec.Language)
	}

	w.writePublishInfo(n, desc, &rec)

	w.setCustom(n, desc, "asin", rec.ASIN)
	if rec.SeriesTotal != 0 {
		w.setCustom(n, desc, "series_total", strconv.Itoa(rec.SeriesTotal))
	}

	if err := doc.WriteToFile(rec.Path); err != nil {
		return fail("fb2: %v", err)
	}
	return metadata.WriteResult{Success: true}
}

// writeAuthors rebuilds the author list wholesale; patching individual
// entries is pointless when order and count change as often as they do.
func (w *Writer) writeAuthors(n ns, titleInfo *etree.Element, authors []string) {
	if len(authors) == 0 {
		return
	}
	for _, a := range n.findAll(titleInfo, "author") {
		if a.Parent() == titleInfo {
			titleInfo.RemoveChild(a)
		}
	}
	for _, name := range authors {
		author := n.create(titleInfo, "author")
		first, last, hasLast := strings.Cut(name, " ")
		n.create(author, "first-name").SetText(first)
		if hasLast {
			n.create(author, "last-name").SetText(last)
		}
	}
}

// writeAnnotation replaces the annotation's children with one paragraph per
// logical item, denormalizing the original-work fields and tags into prose
// for readers that only render the annotation.
func (w *Writer) writeAnnotation(n ns, titleInfo *etree.Element, rec *book.Record) {
	orig := rec.Original
	hasOriginal := orig != nil &&
		((orig.Title != "" && orig.Title != rec.Title) ||
			(len(orig.Authors) > 0 && !slices.Equal(orig.Authors, rec.Authors)))

	if rec.Description == "" && !hasOriginal && len(rec.Tags) == 0 {
		return
	}

	annotation := n.childOrCreate(titleInfo, "annotation")
	for len(annotation.Child) > 0 {
		annotation.RemoveChildAt(0)
	}

	addPara := func(text string) {
		n.create(annotation, "p").SetText(text)
	}

	if rec.Description != "" {
		addPara(rec.Description)
	}
	if hasOriginal {
		if orig.Title != "" && orig.Title != rec.Title {
			addPara("Original title: " + orig.Title)
		}
		if orig.Language != "" {
			addPara("Original language: " + orig.Language)
		}
		if len(orig.Authors) > 0 && !slices.Equal(orig.Authors, rec.Authors) {
			addPara("Original authors: " + strings.Join(orig.Authors, ", "))
		}
	}
	if len(rec.Tags) > 0 {
		addPara("Tags: " + strings.Join(rec.Tags, ", "))
	}
}

// writeKeywords rewrites the keywords element and moves it directly after
// the annotation (or the book title when there is no annotation), where the
// format expects it. Updating it in place cannot fix a misplaced element,
// so it is always removed and reinserted.
func (w *Writer) writeKeywords(n ns, titleInfo *etree.Element, tags []string) {
	if len(tags) == 0 {
		return
	}
	if existing := n.child(titleInfo, "keywords"); existing != nil {
		titleInfo.RemoveChild(existing)
	}

	kw := n.create(titleInfo, "keywords")
	kw.SetText(strings.Join(tags, ", "))

	anchor := n.child(titleInfo, "annotation")
	if anchor == nil {
		anchor = n.child(titleInfo, "book-title")
	}
	if anchor == nil {
		return
	}
	idx := tokenIndex(titleInfo, anchor)
	if idx < 0 {
		return
	}
	titleInfo.RemoveChild(kw)
	titleInfo.InsertChildAt(idx+1, kw)
}

func (w *Writer) writePublishInfo(n ns, desc *etree.Element, rec *book.Record) {
	if rec.Publisher == "" && rec.Published.IsZero() && rec.Year == 0 &&
		rec.ISBN13 == "" && rec.ISBN10 == "" {
		if n.child(desc, "publish-info") == nil {
			return
		}
	}
	pub := n.childOrCreate(desc, "publish-info")

	if rec.Publisher != "" {
		n.childOrCreate(pub, "publisher").SetText(rec.Publisher)
	}

	year := rec.Year
	if !rec.Published.IsZero() {
		year = rec.Published.Year()
	}
	if year != 0 {
		n.childOrCreate(pub, "year").SetText(strconv.Itoa(year))
	}

	if isbn := firstNonEmpty(rec.ISBN13, rec.ISBN10); isbn != "" {
		n.childOrCreate(pub, "isbn").SetText(isbn)
	}
}

// setCustom stores a non-standard field as <custom-info info-type="name">,
// updating an existing entry with the same key in place.
func (w *Writer) setCustom(n ns, desc *etree.Element, name, value string) {
	if value == "" {
		return
	}
	for _, el := range desc.ChildElements() {
		if n.is(el, "custom-info") && el.SelectAttrValue("info-type", "") == name {
			el.SetText(value)
			return
		}
	}
	el := n.create(desc, "custom-info")
	el.CreateAttr("info-type", name)
	el.SetText(value)
}

func tokenIndex(parent *etree.Element, el *etree.Element) int {
	for i, tok := range parent.Child {
		if tok == etree.Token(el) {
			return i
		}
	}
	return -1
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func fail(format string, args ...any) metadata.WriteResult {
	return metadata.WriteResult{Errors: []string{fmt.Sprintf(format, args...)}}
}

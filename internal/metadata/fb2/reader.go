package fb2

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/shelfmark/shelfmark/internal/book"
)

// Reader extracts FB2 metadata. Fill-only: fields already set on the
// record are left alone.
type Reader struct{}

// NewReader returns the FB2 metadata reader.
func NewReader() *Reader {
	return &Reader{}
}

// Supports reports whether the record is an FB2 file.
func (r *Reader) Supports(rec *book.Record) bool {
	return strings.EqualFold(rec.Extension, "fb2")
}

// Read parses the FB2 document and fills every empty metadata field it can.
// A parse failure is recorded as a diagnostic and leaves the record
// otherwise unchanged.
func (r *Reader) Read(rec book.Record) book.Record {
	out := rec.Clone()

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(out.Path); err != nil {
		out.AddError(fmt.Sprintf("fb2 parse error: %v", err))
		return out
	}
	root := doc.Root()
	if root == nil {
		out.AddError("fb2 parse error: document has no root element")
		return out
	}
	n := detectNS(root)

	if out.Title == "" {
		if el := n.find(root, "book-title"); el != nil {
			out.Title = strings.TrimSpace(el.Text())
		}
	}

	if out.Subtitle == "" {
		if el := n.find(root, "subtitle"); el != nil {
			out.Subtitle = strings.TrimSpace(el.Text())
		}
	}

	if len(out.Authors) == 0 {
		var authors []string
		for _, author := range n.findAll(root, "author") {
			if name := authorName(n, author); name != "" {
				authors = append(authors, name)
			}
		}
		out.Authors = authors
	}

	if out.Description == "" {
		if el := n.find(root, "annotation"); el != nil {
			out.Description = strings.TrimSpace(allText(el))
		}
	}

	if len(out.Tags) == 0 {
		if el := n.find(root, "keywords"); el != nil {
			for _, tag := range strings.Split(el.Text(), ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					out.Tags = append(out.Tags, tag)
				}
			}
		}
	}

	if out.Language == "" {
		if el := n.find(root, "lang"); el != nil {
			out.Language = strings.TrimSpace(el.Text())
		}
	}

	if seq := n.find(root, "sequence"); seq != nil {
		if out.Series == "" {
			out.Series = seq.SelectAttrValue("name", "")
		}
		if out.SeriesIndex == 0 {
			if num := seq.SelectAttrValue("number", ""); isDigits(num) {
				out.SeriesIndex, _ = strconv.Atoi(num)
			}
		}
	}

	if pub := n.find(root, "publish-info"); pub != nil {
		r.readPublishInfo(n, pub, &out)
	}

	if out.Source == "" {
		out.Source = "file"
	}
	return out
}

func (r *Reader) readPublishInfo(n ns, pub *etree.Element, out *book.Record) {
	if out.Publisher == "" {
		if el := n.child(pub, "publisher"); el != nil {
			out.Publisher = strings.TrimSpace(el.Text())
		}
	}

	if el := n.child(pub, "year"); el != nil {
		if y, err := strconv.Atoi(strings.TrimSpace(el.Text())); err == nil {
			if out.Year == 0 {
				out.Year = y
			}
			if out.Published.IsZero() {
				out.Published = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
			}
		}
	}

	if el := n.child(pub, "isbn"); el != nil {
		raw := strings.TrimSpace(el.Text())
		digits := strings.ReplaceAll(raw, "-", "")
		switch {
		case len(digits) == 13 && isDigits(digits) && out.ISBN13 == "":
			out.ISBN13 = raw
		case len(digits) == 10 && isDigits(digits) && out.ISBN10 == "":
			out.ISBN10 = raw
		}
	}
}

// authorName joins the name part elements with single spaces, skipping
// empty parts.
func authorName(n ns, author *etree.Element) string {
	var parts []string
	for _, tag := range []string{"first-name", "middle-name", "last-name"} {
		if el := n.child(author, tag); el != nil {
			if part := strings.TrimSpace(el.Text()); part != "" {
				parts = append(parts, part)
			}
		}
	}
	return strings.Join(parts, " ")
}

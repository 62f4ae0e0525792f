package archive

import (
	"regexp"
	"time"
)

// PubDateLayout is the date format written into the eml pubDate element.
const PubDateLayout = "2006-01-02"

var pubDatePattern = regexp.MustCompile(`(?s)(<pubDate>)(.*?)(</pubDate>)`)

// RewritePubDate sets the first pubDate element of doc to now. It returns the
// new document and the length of the date value, which is excluded from the
// fingerprint. Documents without a pubDate are returned unchanged.
func RewritePubDate(doc []byte, now time.Time) ([]byte, int) {
	loc := pubDatePattern.FindSubmatchIndex(doc)
	if loc == nil {
		return doc, 0
	}
	date := now.Format(PubDateLayout)
	out := make([]byte, 0, len(doc)-(loc[5]-loc[4])+len(date))
	out = append(out, doc[:loc[4]]...)
	out = append(out, date...)
	out = append(out, doc[loc[5]:]...)
	return out, len(date)
}

// pubDateLength returns the length of the pubDate value in doc.
func pubDateLength(doc []byte) int {
	m := pubDatePattern.FindSubmatch(doc)
	if m == nil {
		return 0
	}
	return len(m[2])
}

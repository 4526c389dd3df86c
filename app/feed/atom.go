package feed

import (
	"time"
)

// Atom extracts posts from Atom 1.0 documents: every <entry> element,
// wherever it is nested.
type Atom struct{}

func (Atom) Entries(root *Node) []*Node {
	var entries []*Node
	if root.Name.Local == "entry" {
		entries = append(entries, root)
	}
	return append(entries, root.FindAll("entry")...)
}

func (Atom) GUID(entry *Node) string {
	return findText(entry, "id")
}

// Link returns the href of the first <link> whose rel is unset or
// "alternate". Links with any other rel never qualify.
func (Atom) Link(entry *Node) string {
	for _, link := range entry.FindAll("link") {
		rel, ok := link.Attr("rel")
		if ok && rel != "" && rel != "alternate" {
			continue
		}
		href, _ := link.Attr("href")
		return href
	}
	return ""
}

// Author is not extracted for Atom entries.
func (Atom) Author(entry *Node) string {
	return ""
}

func (Atom) Title(entry *Node) string {
	return findText(entry, "title")
}

func (Atom) Description(entry *Node) string {
	return findText(entry, "content")
}

func (Atom) Published(entry *Node) (time.Time, error) {
	return parseAtomDate(findText(entry, "published"))
}

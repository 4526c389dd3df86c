package feed

import (
	"time"
)

// RSS extracts posts from RSS 2.0 documents: <item> elements that are
// children of a <channel> directly under <rss>.
type RSS struct{}

func (RSS) Entries(root *Node) []*Node {
	var items []*Node

	collect := func(n *Node) bool {
		if !n.Is("rss") {
			return true
		}
		for _, channel := range n.Children {
			if !channel.Is("channel") {
				continue
			}
			for _, item := range channel.Children {
				if item.Is("item") {
					items = append(items, item)
				}
			}
		}
		return true
	}

	collect(root)
	root.walk(collect)

	return items
}

func (RSS) GUID(entry *Node) string {
	return findText(entry, "guid")
}

func (RSS) Link(entry *Node) string {
	return findText(entry, "link")
}

func (RSS) Author(entry *Node) string {
	return findText(entry, "author")
}

func (RSS) Title(entry *Node) string {
	return findText(entry, "title")
}

func (RSS) Description(entry *Node) string {
	return findText(entry, "description")
}

func (RSS) Published(entry *Node) (time.Time, error) {
	return parseFirst(findText(entry, "pubDate"), rssDateLayouts)
}

package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
)

// Dialect locates entries in a feed document and extracts their raw
// fields. Implementations hold no per-call state.
type Dialect interface {
	Entries(root *Node) []*Node
	GUID(entry *Node) string
	Link(entry *Node) string
	Author(entry *Node) string
	Title(entry *Node) string
	Description(entry *Node) string
	Published(entry *Node) (time.Time, error)
}

type Option func(*Parser)

// WithClock replaces the clock used for entries without a usable date.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// Parser turns feed documents of one dialect into posts. It is safe for
// concurrent use.
type Parser struct {
	dialect Dialect
	now     func() time.Time
}

func NewParser(dialect Dialect, opts ...Option) *Parser {
	p := &Parser{
		dialect: dialect,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Dialect() Dialect {
	return p.dialect
}

// Parse returns one post per entry in document order. Only a malformed
// document is an error; missing or broken fields fall back per entry.
func (p *Parser) Parse(data []byte) ([]Post, error) {
	root, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}

	entries := p.dialect.Entries(root)
	posts := make([]Post, 0, len(entries))
	for _, entry := range entries {
		posts = append(posts, p.buildPost(entry))
	}

	return posts, nil
}

func (p *Parser) buildPost(entry *Node) Post {
	link := p.dialect.Link(entry)

	guid := p.dialect.GUID(entry)
	if guid == "" {
		guid = hashGUID(link)
	}

	published, err := p.dialect.Published(entry)
	if err != nil {
		slog.Debug("Using extraction time as publication date", "guid", guid, "error", err)
		published = p.now()
	}

	return Post{
		GUID:        guid,
		Link:        link,
		Author:      p.dialect.Author(entry),
		Title:       p.dialect.Title(entry),
		Description: p.dialect.Description(entry),
		PubDate:     published.Format(PubDateLayout),
	}
}

// hashGUID derives an identifier from the link. A missing link hashes the
// empty string, so the result is still stable.
func hashGUID(link string) string {
	hash := sha256.Sum256([]byte(link))
	return hex.EncodeToString(hash[:])
}

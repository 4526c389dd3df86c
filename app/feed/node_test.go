package feed

import (
	"errors"
	"testing"
)

func TestParseDocumentBuildsTree(t *testing.T) {
	data := `<?xml version="1.0"?>
<root xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <a rel="x">first<b>inner</b>second</a>
  <content:encoded><![CDATA[<p>Hello</p>]]></content:encoded>
</root>`

	root, err := ParseDocument([]byte(data))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if root.Name.Local != "root" {
		t.Errorf("Expected root element 'root', got: %s", root.Name.Local)
	}
	if len(root.Children) != 2 {
		t.Fatalf("Expected 2 children, got: %d", len(root.Children))
	}

	a := root.Children[0]
	if a.Text != "firstsecond" {
		t.Errorf("Expected direct text 'firstsecond', got: %q", a.Text)
	}
	if rel, ok := a.Attr("rel"); !ok || rel != "x" {
		t.Errorf("Expected rel attribute 'x', got: %q (present: %v)", rel, ok)
	}
	if _, ok := a.Attr("href"); ok {
		t.Error("Expected missing href attribute to be absent")
	}

	encoded := root.Children[1]
	if encoded.Name.Space != "http://purl.org/rss/1.0/modules/content/" {
		t.Errorf("Expected content namespace, got: %s", encoded.Name.Space)
	}
	if encoded.Text != "<p>Hello</p>" {
		t.Errorf("Expected CDATA text, got: %q", encoded.Text)
	}
}

func TestParseDocumentMalformed(t *testing.T) {
	documents := map[string]string{
		"empty":            "",
		"whitespace":       "   \n",
		"unclosed":         "<rss><channel></rss>",
		"not xml":          "this is not xml",
		"two roots":        "<a/><b/>",
		"trailing text":    "<a/>junk",
		"undefined entity": "<a>&nbsp;</a>",
	}

	for name, document := range documents {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDocument([]byte(document))
			if !errors.Is(err, ErrMalformedDocument) {
				t.Errorf("Expected ErrMalformedDocument, got: %v", err)
			}
		})
	}
}

func TestParseDocumentDeclaredCharset(t *testing.T) {
	// "Café" encoded as ISO-8859-1.
	data := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><title>Caf`), 0xE9, '<', '/', 't', 'i', 't', 'l', 'e', '>')

	root, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if root.Text != "Café" {
		t.Errorf("Expected decoded text 'Café', got: %q", root.Text)
	}
}

func TestFindTextIgnoresNamespaces(t *testing.T) {
	data := `<item xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:media="http://search.yahoo.com/mrss/">
  <media:group><dc:creator>Jane</dc:creator></media:group>
  <creator>John</creator>
  <title></title>
</item>`

	root, err := ParseDocument([]byte(data))
	if err != nil {
		t.Fatal(err)
	}

	creator, ok := FindText(root, "creator")
	if !ok {
		t.Fatal("Expected creator to be found")
	}
	if creator != "Jane" {
		t.Errorf("Expected first creator in document order 'Jane', got: %s", creator)
	}

	title, ok := FindText(root, "title")
	if !ok || title != "" {
		t.Errorf("Expected empty title element to be found with empty text, got: %q (found: %v)", title, ok)
	}

	if _, ok := FindText(root, "missing"); ok {
		t.Error("Expected missing element to be absent")
	}

	if _, ok := FindText(root, "item"); ok {
		t.Error("Expected the node itself not to match")
	}
}

func TestFindAllDocumentOrder(t *testing.T) {
	data := `<feed><link href="1"/><x><link href="2"/></x><link href="3"/></feed>`

	root, err := ParseDocument([]byte(data))
	if err != nil {
		t.Fatal(err)
	}

	links := root.FindAll("link")
	if len(links) != 3 {
		t.Fatalf("Expected 3 links, got: %d", len(links))
	}
	for i, want := range []string{"1", "2", "3"} {
		if href, _ := links[i].Attr("href"); href != want {
			t.Errorf("Expected link %d href %s, got: %s", i, want, href)
		}
	}
}

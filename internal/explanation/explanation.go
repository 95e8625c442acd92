// Package explanation turns the HTML explanation of a subtopic into text blocks for terminals and exports.
package explanation

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindListItem
	KindOrderedListItem
	KindQuote
	KindCode
)

// Block is one rendered element of an explanation.
type Block struct {
	Kind Kind
	// Number is the 1-based position of an ordered list item.
	Number int
	Text   string
}

// Parse extracts the blocks of an explanation. Text outside any block element becomes a paragraph.
func Parse(explanation string) ([]Block, error) {
	doc, err := html.Parse(strings.NewReader(explanation))
	if err != nil {
		return nil, fmt.Errorf("html.Parse() > %w", err)
	}

	var blocks []Block
	extractBlocks(doc, &blocks)
	return blocks, nil
}

func extractBlocks(n *html.Node, blocks *[]Block) {
	if n.Type == html.TextNode {
		if text := cleanText(n.Data); text != "" {
			*blocks = append(*blocks, Block{Kind: KindParagraph, Text: text})
		}
		return
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			appendBlock(blocks, Block{Kind: KindHeading, Text: cleanText(getTextContent(n))})
			return
		case "p":
			appendBlock(blocks, Block{Kind: KindParagraph, Text: cleanText(getTextContent(n))})
			return
		case "blockquote":
			appendBlock(blocks, Block{Kind: KindQuote, Text: cleanText(getTextContent(n))})
			return
		case "pre":
			appendBlock(blocks, Block{Kind: KindCode, Text: strings.Trim(getTextContent(n), "\n")})
			return
		case "ol":
			number := 0
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.Data == "li" {
					number++
					appendBlock(blocks, Block{Kind: KindOrderedListItem, Number: number, Text: cleanText(getTextContent(c))})
				}
			}
			return
		case "li":
			appendBlock(blocks, Block{Kind: KindListItem, Text: cleanText(getTextContent(n))})
			return
		case "script", "style":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractBlocks(c, blocks)
	}
}

func appendBlock(blocks *[]Block, block Block) {
	if strings.TrimSpace(block.Text) == "" {
		return
	}
	*blocks = append(*blocks, block)
}

func getTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var result strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result.WriteString(getTextContent(c))
	}
	return result.String()
}

func cleanText(s string) string {
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// PlainText renders an explanation for a terminal. Unparseable input is returned unchanged.
func PlainText(explanation string) string {
	blocks, err := Parse(explanation)
	if err != nil {
		return explanation
	}

	lines := make([]string, 0, len(blocks))
	for _, block := range blocks {
		switch block.Kind {
		case KindHeading:
			lines = append(lines, strings.ToUpper(block.Text))
		case KindListItem:
			lines = append(lines, "  • "+block.Text)
		case KindOrderedListItem:
			lines = append(lines, fmt.Sprintf("  %d. %s", block.Number, block.Text))
		case KindQuote:
			lines = append(lines, "  | "+block.Text)
		case KindCode:
			lines = append(lines, indent(block.Text, "    "))
		default:
			lines = append(lines, block.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// Markdown renders an explanation as Markdown nested under a level 2 heading.
func Markdown(explanation string) string {
	blocks, err := Parse(explanation)
	if err != nil {
		return explanation
	}

	var parts []string
	for i, block := range blocks {
		var rendered string
		switch block.Kind {
		case KindHeading:
			rendered = "### " + block.Text
		case KindListItem:
			rendered = "- " + block.Text
		case KindOrderedListItem:
			rendered = fmt.Sprintf("%d. %s", block.Number, block.Text)
		case KindQuote:
			rendered = "> " + block.Text
		case KindCode:
			rendered = "```\n" + block.Text + "\n```"
		default:
			rendered = block.Text
		}

		// Consecutive list items stay in one list
		if i > 0 && isListItem(block) && isListItem(blocks[i-1]) && block.Kind == blocks[i-1].Kind {
			parts[len(parts)-1] += "\n" + rendered
			continue
		}
		parts = append(parts, rendered)
	}
	return strings.Join(parts, "\n\n")
}

func isListItem(block Block) bool {
	return block.Kind == KindListItem || block.Kind == KindOrderedListItem
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

package extract

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	summaryMaxChars  = 600
	summaryMaxBlocks = 8
	summaryMinBlock  = 20
)

// strippedSelector removes chrome and noise before any text pass: scripts,
// navigation, forms, cookie banners, modals.
const strippedSelector = "script, style, noscript, nav, footer, header, aside, form, button, " +
	"[class*=cookie], [id*=cookie], [class*=modal], [id*=modal], [class*=popup], [id*=popup]"

// boilerplatePhrases disqualify a text block from the summary.
var boilerplatePhrases = []string{"copyright", "all rights reserved", "subscribe"}

// blockSelector lists the block-level elements the content pass walks.
const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, div, section, article, blockquote, td, pre"

// Content is the output of the summary/content extractor.
type Content struct {
	// Summary is at most 600 characters from up to 8 meaningful blocks.
	Summary string

	// Text is the full visible text, blank-line-joined between blocks,
	// or markdown when requested.
	Text string
}

// mdConverter is shared across extractions; the v2 converter is
// goroutine-safe.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(
			table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
		),
	),
)

// ExtractContent produces the page summary and full content text. When
// markdown is true the content is rendered as markdown of the readability
// main article instead of plain text.
//
// The function parses its own copy of the HTML because it mutates the tree
// (strips chrome) and the shared Page document is read concurrently by the
// other extractors.
func ExtractContent(p *Page, markdown bool) Content {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML))
	if err != nil {
		return Content{}
	}
	doc.Find(strippedSelector).Remove()

	c := Content{
		Summary: extractSummary(doc),
	}

	if markdown {
		c.Text = markdownContent(p)
		if c.Text != "" {
			return c
		}
	}

	c.Text = fullText(doc)
	if strings.TrimSpace(c.Text) == "" {
		c.Text = readabilityText(p)
	}
	return c
}

// extractSummary collects the first qualifying text blocks from the
// main-content containers, falling back to the whole body, and truncates
// the joined result to 600 characters.
func extractSummary(doc *goquery.Document) string {
	blocks := summaryBlocks(doc, strings.Join(mainContentSelectors, ", "))
	if len(blocks) == 0 {
		blocks = summaryBlocks(doc, "body")
	}
	joined := strings.Join(blocks, " ")
	if len(joined) > summaryMaxChars {
		// Cut on a rune boundary so multi-byte text never truncates into
		// invalid UTF-8.
		cut := summaryMaxChars
		for cut > 0 && !utf8.RuneStart(joined[cut]) {
			cut--
		}
		joined = joined[:cut]
	}
	return strings.TrimSpace(joined)
}

func summaryBlocks(doc *goquery.Document, scope string) []string {
	var blocks []string
	seen := make(map[string]struct{})

	doc.Find(scope).Find("h1, h2, h3, h4, h5, h6, p, li, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		// A div's text includes everything under it; only accept leaf-ish
		// divs so one wrapper doesn't swallow the whole page.
		if goquery.NodeName(s) == "div" && s.Find(blockSelector).Length() > 0 {
			return true
		}
		text := cleanSpace(s.Text())
		if len(text) < summaryMinBlock || isBoilerplate(text) {
			return true
		}
		if _, dup := seen[text]; dup {
			return true
		}
		seen[text] = struct{}{}
		blocks = append(blocks, text)
		return len(blocks) < summaryMaxBlocks
	})

	return blocks
}

func isBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// fullText walks every block-level element and emits text only from those
// without nested block children, so parent/child overlap never duplicates
// text. Blocks are joined with blank lines.
func fullText(doc *goquery.Document) string {
	var parts []string
	doc.Find("body").Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		if text := cleanSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

// readabilityText is the fallback when the structural pass finds nothing:
// let go-readability locate the main article and use its text content.
func readabilityText(p *Page) string {
	article, err := readability.FromReader(strings.NewReader(p.HTML), p.Base)
	if err != nil {
		slog.Debug("readability fallback failed", "url", p.Base.String(), "error", err)
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

// markdownContent renders the readability main article as markdown.
func markdownContent(p *Page) string {
	article, err := readability.FromReader(strings.NewReader(p.HTML), p.Base)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return ""
	}
	md, err := mdConverter.ConvertString(article.Content, converter.WithDomain(p.Base.String()))
	if err != nil {
		slog.Debug("markdown conversion failed", "url", p.Base.String(), "error", err)
		return ""
	}
	return strings.TrimSpace(md)
}

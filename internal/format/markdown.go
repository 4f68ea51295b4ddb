package format

import (
	"regexp"
	"strings"

	"github.com/hemal8976/personal-webhook/internal/clickup"
)

var (
	headingRe = regexp.MustCompile(`^#{1,6}\s+`)
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)\s]+)\)`)
	escapeRe  = regexp.MustCompile(`\\([\\` + "`" + `*_{}\[\]()#+\-.!>~|])`)
)

// MarkdownToBlocks converts light markdown into the ordered ClickUp
// rich-text block list, line by line.
//
// Per line: backslash-escaped punctuation is unescaped first. A heading
// marker (# through ######, followed by whitespace) is stripped and marks
// the whole line bold. [label](http(s)://url) spans become link blocks
// carrying the heading attribute when present; surrounding text becomes
// plain blocks with the same heading attribute. A newline block separates
// lines but is not appended after the last one. Blocks follow left-to-right
// scan order; the trailing segment after the last link is emitted even when
// empty so positional attributes survive.
func MarkdownToBlocks(md string) []clickup.CommentBlock {
	lines := strings.Split(md, "\n")
	blocks := make([]clickup.CommentBlock, 0, len(lines))

	for i, line := range lines {
		line = unescape(line)

		lineAttrs := map[string]interface{}{}
		if marker := headingRe.FindString(line); marker != "" {
			line = line[len(marker):]
			lineAttrs["bold"] = true
		}

		matches := linkRe.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			blocks = append(blocks, textBlock(line, lineAttrs))
		} else {
			last := 0
			for _, m := range matches {
				if m[0] > last {
					blocks = append(blocks, textBlock(line[last:m[0]], lineAttrs))
				}
				blocks = append(blocks, linkBlock(line[m[2]:m[3]], line[m[4]:m[5]], lineAttrs))
				last = m[1]
			}
			blocks = append(blocks, textBlock(line[last:], lineAttrs))
		}

		if i < len(lines)-1 {
			blocks = append(blocks, textBlock("\n", nil))
		}
	}

	return blocks
}

func unescape(line string) string {
	return escapeRe.ReplaceAllString(line, "$1")
}

func textBlock(text string, attrs map[string]interface{}) clickup.CommentBlock {
	return clickup.CommentBlock{Text: text, Attributes: copyAttrs(attrs)}
}

func linkBlock(label, url string, attrs map[string]interface{}) clickup.CommentBlock {
	merged := copyAttrs(attrs)
	merged["link"] = url
	return clickup.CommentBlock{Text: label, Attributes: merged}
}

// copyAttrs gives each block its own attribute map.
func copyAttrs(attrs map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

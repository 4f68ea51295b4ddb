package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainLineYieldsSingleBlock(t *testing.T) {
	blocks := MarkdownToBlocks("just some text")

	require.Len(t, blocks, 1)
	assert.Equal(t, "just some text", blocks[0].Text)
	assert.Empty(t, blocks[0].Attributes)
}

func TestHeadingStripsMarkerAndSetsBold(t *testing.T) {
	blocks := MarkdownToBlocks("## Action Items")

	require.Len(t, blocks, 1)
	assert.Equal(t, "Action Items", blocks[0].Text)
	assert.Equal(t, map[string]interface{}{"bold": true}, blocks[0].Attributes)
}

func TestSevenHashesIsNotAHeading(t *testing.T) {
	blocks := MarkdownToBlocks("####### nope")

	require.Len(t, blocks, 1)
	assert.Equal(t, "####### nope", blocks[0].Text)
	assert.Empty(t, blocks[0].Attributes)
}

func TestLinkSplitsLineIntoOrderedBlocks(t *testing.T) {
	blocks := MarkdownToBlocks("see [the doc](https://example.com/d) for details")

	require.Len(t, blocks, 3)

	assert.Equal(t, "see ", blocks[0].Text)
	assert.Empty(t, blocks[0].Attributes)

	assert.Equal(t, "the doc", blocks[1].Text)
	assert.Equal(t, "https://example.com/d", blocks[1].Attributes["link"])

	assert.Equal(t, " for details", blocks[2].Text)
}

func TestLinkInsideHeadingCarriesBothAttributes(t *testing.T) {
	blocks := MarkdownToBlocks("# [Recording](https://rec.example.com/x)")

	require.Len(t, blocks, 2)

	assert.Equal(t, "Recording", blocks[0].Text)
	assert.Equal(t, true, blocks[0].Attributes["bold"])
	assert.Equal(t, "https://rec.example.com/x", blocks[0].Attributes["link"])

	// The zero-length trailing segment is kept with the line attributes.
	assert.Equal(t, "", blocks[1].Text)
	assert.Equal(t, map[string]interface{}{"bold": true}, blocks[1].Attributes)
}

func TestMultipleLinksScanLeftToRight(t *testing.T) {
	blocks := MarkdownToBlocks("[a](http://a.io) mid [b](https://b.io)")

	require.Len(t, blocks, 4)
	assert.Equal(t, "a", blocks[0].Text)
	assert.Equal(t, "http://a.io", blocks[0].Attributes["link"])
	assert.Equal(t, " mid ", blocks[1].Text)
	assert.Equal(t, "b", blocks[2].Text)
	assert.Equal(t, "https://b.io", blocks[2].Attributes["link"])
	assert.Equal(t, "", blocks[3].Text)
}

func TestNewlineBlocksSeparateLinesButNotAfterLast(t *testing.T) {
	blocks := MarkdownToBlocks("first\nsecond")

	require.Len(t, blocks, 3)
	assert.Equal(t, "first", blocks[0].Text)
	assert.Equal(t, "\n", blocks[1].Text)
	assert.Equal(t, "second", blocks[2].Text)
}

func TestEscapedPunctuationIsUnescaped(t *testing.T) {
	blocks := MarkdownToBlocks(`value \[in brackets\] and \*stars\*`)

	require.Len(t, blocks, 1)
	assert.Equal(t, "value [in brackets] and *stars*", blocks[0].Text)
}

func TestNonHTTPLinksStayPlainText(t *testing.T) {
	blocks := MarkdownToBlocks("[label](ftp://example.com)")

	require.Len(t, blocks, 1)
	assert.Equal(t, "[label](ftp://example.com)", blocks[0].Text)
}

func TestBlocksHaveIndependentAttributeMaps(t *testing.T) {
	blocks := MarkdownToBlocks("# one [l](https://x.io) two")

	require.Len(t, blocks, 3)
	blocks[0].Attributes["mutated"] = true
	_, leaked := blocks[2].Attributes["mutated"]
	assert.False(t, leaked)
}

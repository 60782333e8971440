package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func nameTable() *Table {
	t := NewTable([]Column{
		{Title: "Subname", Width: 20},
		{Title: "Expiry", Width: 6, Align: AlignRight},
		{Title: "Status", Width: 10},
	})
	t.AddRow(Row{"alice.noun.eth", "2027", Success("active")})
	t.AddRow(Row{"bob.noun.eth", "2025", Err("expired")})
	return t
}

func TestTableRenderListsSubnames(t *testing.T) {
	out := nameTable().Render()
	assert.Contains(t, out, "Subname")
	assert.Contains(t, out, "alice.noun.eth")
	assert.Contains(t, out, "bob.noun.eth")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "expired")
}

func TestTableRenderRowOrder(t *testing.T) {
	out := nameTable().Render()
	assert.Less(t, strings.Index(out, "alice"), strings.Index(out, "bob"))
}

func TestTableRenderDivider(t *testing.T) {
	out := NewTable([]Column{{Title: "Col", Width: 4}}).Render()
	assert.Contains(t, out, "────")
}

func TestTableAlignRight(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Lag", Width: 5, Align: AlignRight}})
	tbl.AddRow(Row{"3"})
	out := tbl.Render()
	assert.Contains(t, out, "    3", "right-aligned cell pads on the left")
}

func TestTableTruncatesLongSubname(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Subname", Width: 10}})
	tbl.AddRow(Row{"averylonglabel.noun.eth"})
	out := tbl.Render()
	assert.Contains(t, out, "averylong…", "overflow is cut at the column width")
	assert.NotContains(t, out, "averylonglabel.noun.eth")
}

func TestTableStyledCellNotTruncated(t *testing.T) {
	// Styled cells carry escape codes; cutting them would corrupt the
	// sequence, so they are only padded.
	styled := "\x1b[32ma-styled-value-wider-than-column\x1b[0m"
	tbl := NewTable([]Column{{Title: "Status", Width: 8}})
	tbl.AddRow(Row{styled})
	out := tbl.Render()
	assert.Contains(t, out, "a-styled-value-wider-than-column")
}

func TestTableMissingCells(t *testing.T) {
	tbl := NewTable([]Column{
		{Title: "Name", Width: 8},
		{Title: "Owner", Width: 8},
	})
	tbl.AddRow(Row{"carol"})
	out := tbl.Render()
	assert.Contains(t, out, "carol")
}

func TestTableSelectedRow(t *testing.T) {
	tbl := nameTable()
	tbl.SelIdx = 1
	out := tbl.Render()
	assert.Contains(t, out, "alice.noun.eth")
	assert.Contains(t, out, "bob.noun.eth")
}

func TestNewTableState(t *testing.T) {
	tbl := NewTable([]Column{{Title: "A", Width: 2}})
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, -1, tbl.SelIdx)
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab   ", fit("ab", 5, AlignLeft))
	assert.Equal(t, "   ab", fit("ab", 5, AlignRight))
	assert.Equal(t, "abcd…", fit("abcdef", 5, AlignLeft))
	assert.Equal(t, "abcde", fit("abcde", 5, AlignLeft))
}

// ---------------------------------------------------------------------------
// KeyValueBlock
// ---------------------------------------------------------------------------

func TestKeyValueBlockRecordView(t *testing.T) {
	out := KeyValueBlock("alice.noun.eth", [][2]string{
		{"avatar", "ipfs://pic"},
		{"url", "https://alice.example"},
		{"com.twitter", "alice"},
	})
	assert.Contains(t, out, "alice.noun.eth")
	assert.Contains(t, out, "avatar")
	assert.Contains(t, out, "ipfs://pic")
	assert.Contains(t, out, "com.twitter")
	// lipgloss rounded border corners.
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "╰")
}

func TestKeyValueBlockNoTitle(t *testing.T) {
	out := KeyValueBlock("", [][2]string{{"description", "gm"}})
	assert.Contains(t, out, "description")
	assert.Contains(t, out, "gm")
}

func TestKeyValueBlockKeepsPairOrder(t *testing.T) {
	out := KeyValueBlock("records", [][2]string{
		{"avatar", "a"},
		{"url", "b"},
		{"mail", "c"},
	})
	assert.Less(t, strings.Index(out, "avatar"), strings.Index(out, "url"))
	assert.Less(t, strings.Index(out, "url"), strings.Index(out, "mail"))
}

// ---------------------------------------------------------------------------
// Banner
// ---------------------------------------------------------------------------

func TestBannerContainsBranding(t *testing.T) {
	result := Banner()
	assert.Contains(t, result, "ENS subnames", "banner should contain product tagline")
	assert.Contains(t, result, "mint", "banner should mention the mint feature")
}

func TestBannerNonEmpty(t *testing.T) {
	assert.NotEmpty(t, Banner())
}

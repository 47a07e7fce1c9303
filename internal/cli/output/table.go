package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// NewTable creates a table writer mirrored to the primary output with an
// optional header row.
func (r *Renderer) NewTable(header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	if len(header) > 0 {
		t.AppendHeader(table.Row(header))
	}
	return t
}

// RenderTable renders t in the current mode: a box-drawing table for
// text, a markdown table otherwise.
func (r *Renderer) RenderTable(t table.Writer) {
	if r.EffectiveMode() == ModeText {
		t.Render()
		return
	}
	t.RenderMarkdown()
}

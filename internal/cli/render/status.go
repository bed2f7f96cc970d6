package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/salvo/internal/domain"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

// StatusRenderer renders ledger entries grouped by network
type StatusRenderer struct {
	out   io.Writer
	color bool
}

// NewStatusRenderer creates a new status renderer
func NewStatusRenderer(out io.Writer, color bool) *StatusRenderer {
	return &StatusRenderer{
		out:   out,
		color: color,
	}
}

// RenderStatus renders one table per network. Entries arrive sorted by
// network then artifact.
func (r *StatusRenderer) RenderStatus(result *usecase.ShowStatusResult) error {
	if len(result.Artifacts) == 0 {
		if result.Network != "" {
			fmt.Fprintf(r.out, "No ledger entries for network %s\n", result.Network)
		} else {
			fmt.Fprintln(r.out, "No ledger entries")
		}
		return nil
	}

	var (
		current string
		t       table.Writer
	)
	flush := func() {
		if t != nil {
			fmt.Fprintln(r.out, t.Render())
			fmt.Fprintln(r.out)
		}
	}

	for _, a := range result.Artifacts {
		entry := a.Entry
		if t == nil || entry.Network != current {
			flush()
			current = entry.Network
			fmt.Fprintf(r.out, "%s\n\n", paint(r.color, networkBgStyle, fmt.Sprintf(" %s ", current)))
			t = newBorderlessTable()
			t.AppendHeader(table.Row{"Artifact", "Status", "Address", "Spec Hash", "Updated", "Note"})
		}

		t.AppendRow(table.Row{
			paint(r.color, nameStyle, entry.Artifact),
			r.status(entry.Status),
			paint(r.color, addressStyle, entry.Address),
			paint(r.color, faintStyle, shortHash(entry.SpecHash.Hex())),
			paint(r.color, faintStyle, entry.Timestamp.Local().Format("2006-01-02 15:04:05")),
			r.note(a),
		})
	}
	flush()
	return nil
}

func (r *StatusRenderer) note(a usecase.ArtifactStatus) string {
	switch {
	case a.Orphaned:
		return paint(r.color, faintStyle, "not in manifest")
	case a.Stale:
		return paint(r.color, skippedStyle, "spec changed")
	case a.Entry.Status == domain.LedgerFailed:
		return a.Entry.Reason
	default:
		return ""
	}
}

func (r *StatusRenderer) status(status domain.LedgerStatus) string {
	label := title(string(status))
	switch status {
	case domain.LedgerDeployed:
		return paint(r.color, deployedStyle, label)
	case domain.LedgerFailed:
		return paint(r.color, failedStyle, label)
	default:
		return paint(r.color, skippedStyle, label)
	}
}

// Package notify delivers approval certificates to the notification sink. The
// workflow engine only emits the approval event; everything here is adapter
// code around it.
package notify

import (
	"context"
	"log/slog"

	"ecorh/directory"
	"ecorh/leave"
	"ecorh/workcal"
)

// Noop swallows deliveries. Used when email is disabled.
type Noop struct{}

func (Noop) Deliver(context.Context, leave.Approval, []string, []byte) error {
	return nil
}

// Dispatcher wires the approval hook to the renderer and sink: it resolves the
// employee, assembles the certificate data, renders the document and hands it
// to the sink. Failures are logged, never propagated back into the workflow.
type Dispatcher struct {
	Renderer   leave.DocumentRenderer
	Sink       leave.Sink
	Directory  directory.Directory
	Canton     workcal.Canton
	Recipients []string
}

// Approved is the leave.Workflow OnApproved hook.
func (d *Dispatcher) Approved(ctx context.Context, approval leave.Approval) {
	summary, err := d.Directory.Lookup(ctx, approval.EmployeeID)
	if err != nil {
		slog.Warn("approval notification skipped", "groupKey", approval.GroupKey, "err", err)
		return
	}

	canton := approval.Canton
	if canton == "" {
		canton = d.Canton
	}
	data := leave.BuildCertificateData(approval.Group, summary.Name, summary.Department, canton)

	document, err := d.Renderer.Render(ctx, data)
	if err != nil {
		slog.Warn("certificate render failed", "groupKey", approval.GroupKey, "err", err)
		return
	}
	if err := d.Sink.Deliver(ctx, approval, d.Recipients, document); err != nil {
		slog.Warn("certificate delivery failed", "groupKey", approval.GroupKey, "err", err)
	}
}

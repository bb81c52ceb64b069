package engine

// StatementStatus is the externally visible view of one process-statement.
type StatementStatus struct {
	Index     int    `json:"index"`
	Name      string `json:"name,omitempty"`
	Module    string `json:"module"`
	State     string `json:"state"`
	HaveError bool   `json:"have_error"`
}

// ProcessStatus is the externally visible view of one process.
type ProcessStatus struct {
	Name       string            `json:"name"`
	AP         int               `json:"ap"`
	FP         int               `json:"fp"`
	Statements []StatementStatus `json:"statements"`
}

// Snapshot renders the controller state for the admin surface. It must run
// on the reactor.
func (c *Controller) Snapshot() []ProcessStatus {
	out := make([]ProcessStatus, 0, len(c.processes))
	for _, p := range c.processes {
		st := ProcessStatus{Name: p.name, AP: p.ap, FP: p.fp}
		for _, ps := range p.stmts {
			st.Statements = append(st.Statements, StatementStatus{
				Index:     ps.i,
				Name:      ps.st.name,
				Module:    ps.st.ModuleType(),
				State:     ps.state.String(),
				HaveError: ps.haveError,
			})
		}
		out = append(out, st)
	}
	return out
}

package domain

import "path/filepath"

// WorkflowContext namespaces all coordination state of one workflow.
type WorkflowContext struct {
	Key       string
	CacheRoot string
}

// StateDir is the mailbox directory shared by every invocation of the workflow.
func (w WorkflowContext) StateDir() string {
	return filepath.Join(w.CacheRoot, CoalesceNamespace, w.Key)
}

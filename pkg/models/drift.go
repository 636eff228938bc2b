package models

// DriftReport lists the places where the catalog and the blob store disagree.
type DriftReport struct {
	// OrphanedBlobs are stored files no live record points to.
	OrphanedBlobs []string `json:"orphaned_blobs"`
	// MissingBlobs are live records whose stored file is gone.
	MissingBlobs []Exercise `json:"missing_blobs"`
}

// Clean reports whether both stores agree.
func (r DriftReport) Clean() bool {
	return len(r.OrphanedBlobs) == 0 && len(r.MissingBlobs) == 0
}

// PruneResult reports which orphaned blobs were removed, which were too
// recent to touch and which failed.
type PruneResult struct {
	Removed []string          `json:"removed"`
	Skipped []string          `json:"skipped,omitempty"`
	Failed  map[string]string `json:"failed,omitempty"`
}

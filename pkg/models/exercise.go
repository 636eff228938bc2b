package models

import "time"

// Exercise is one catalog record together with the name of its stored file.
type Exercise struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	Faculty        string    `json:"faculty"`
	StoredFileName string    `json:"file_name"`
	CreatedAt      time.Time `json:"created_at"`
}

// ExerciseSummary is the client facing view of a record. It never carries
// the stored file name.
type ExerciseSummary struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Faculty string `json:"faculty"`
}

// ExerciseFile is a fetched exercise: its metadata and the file content.
type ExerciseFile struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Faculty string `json:"faculty"`
	Data    []byte `json:"data"`
}

// NewExercise is the caller supplied part of an upload.
type NewExercise struct {
	Title    string
	Author   string
	Faculty  string
	FileName string
}

// CreateResult reports the outcome of a successful upload: the record as
// stored, whether its file name was derived, and the number of bytes written.
type CreateResult struct {
	Exercise
	Renamed bool  `json:"renamed"`
	Size    int64 `json:"size"`
}

// DeleteResult reports a completed delete. BlobErr is advisory: the record is
// gone even when it is set.
type DeleteResult struct {
	ID             int64
	StoredFileName string
	BlobErr        error
}

package media

import "strings"

// ProgressStatus is the phase a download reports
type ProgressStatus string

const (
	StatusStarting       ProgressStatus = "starting"
	StatusDownloading    ProgressStatus = "downloading"
	StatusTranscoding    ProgressStatus = "transcoding"
	StatusFinished       ProgressStatus = "finished"
	StatusError          ProgressStatus = "error"
	StatusErrorIgnorable ProgressStatus = "error_ignorable"
)

// ProgressEvent is a single status update from a running download
type ProgressEvent struct {
	Status  ProgressStatus
	Percent string
	Speed   string
	ETA     string
}

// Ignorable reports whether the event is the benign error the media tool
// emits after a download has already finished
func (e ProgressEvent) Ignorable() bool {
	return e.Status == StatusErrorIgnorable
}

// String renders the event as "status percent speed eta", skipping empty fields
func (e ProgressEvent) String() string {
	fields := make([]string, 0, 4)
	for _, f := range []string{string(e.Status), e.Percent, e.Speed, e.ETA} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return strings.Join(fields, " ")
}

// ProgressClassifier tracks the events of one download and marks the error
// status that follows a finished download as ignorable. Errors reported
// before any download finished are kept as real errors.
type ProgressClassifier struct {
	finished bool
}

// Classify returns ev with its status adjusted for the download so far
func (c *ProgressClassifier) Classify(ev ProgressEvent) ProgressEvent {
	switch ev.Status {
	case StatusFinished:
		c.finished = true
	case StatusError, StatusErrorIgnorable:
		if c.finished {
			ev.Status = StatusErrorIgnorable
		} else {
			ev.Status = StatusError
		}
	}
	return ev
}

// Finished reports whether a finished event has been seen
func (c *ProgressClassifier) Finished() bool {
	return c.finished
}

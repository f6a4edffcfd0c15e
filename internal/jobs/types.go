package jobs

type JobType string

const (
	JobProcessItem JobType = "process_item"
)

// check to see if the job type is a known constant

func (t JobType) IsValid() bool {
	switch t {
	case JobProcessItem:
		return true
	default:
		return false
	}
}

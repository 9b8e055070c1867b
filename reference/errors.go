package reference

import "fmt"

// NotFoundError reports a recording key absent from the corpus.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("reference not found for key: %s", e.Key)
}

// InsufficientSpeakersError reports a recording with fewer than two speakers.
type InsufficientSpeakersError struct {
	Found int
}

func (e *InsufficientSpeakersError) Error() string {
	return fmt.Sprintf("reference must contain at least two speakers, found %d", e.Found)
}

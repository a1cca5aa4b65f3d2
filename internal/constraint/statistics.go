package constraint

import "fmt"

// SuccessStatistics counts the outcomes of repeated attempts.
type SuccessStatistics struct {
	name    string
	success int
	failure int
}

// NewSuccessStatistics returns empty statistics.
func NewSuccessStatistics(name string) *SuccessStatistics {
	return &SuccessStatistics{name: name}
}

func (s *SuccessStatistics) AddSuccess() { s.success++ }
func (s *SuccessStatistics) AddFailure() { s.failure++ }

func (s *SuccessStatistics) NbSuccess() int { return s.success }
func (s *SuccessStatistics) NbFailure() int { return s.failure }

// NumberOfObservations is NbSuccess + NbFailure.
func (s *SuccessStatistics) NumberOfObservations() int { return s.success + s.failure }

// Rate returns the success ratio, or 0 with no observations.
func (s *SuccessStatistics) Rate() float64 {
	n := s.NumberOfObservations()
	if n == 0 {
		return 0
	}
	return float64(s.success) / float64(n)
}

func (s *SuccessStatistics) String() string {
	return fmt.Sprintf("%s: %d successes, %d failures (rate %.3f)", s.name, s.success, s.failure, s.Rate())
}

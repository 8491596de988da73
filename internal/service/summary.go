package service

import "strings"

type (
	Step struct {
		Name string
		Err  error
	}

	// Summary aggregates a composite run. It is a success only when
	// every step succeeded; failing steps are reported by name.
	Summary struct {
		Steps []Step
	}
)

func (s *Summary) Add(name string, err error) {
	s.Steps = append(s.Steps, Step{Name: name, Err: err})
}

func (s Summary) Ok() bool {
	for _, step := range s.Steps {
		if step.Err != nil {
			return false
		}
	}
	return true
}

func (s Summary) Failures() []string {
	failed := make([]string, 0)
	for _, step := range s.Steps {
		if step.Err != nil {
			failed = append(failed, step.Name)
		}
	}
	return failed
}

func (s Summary) String() string {
	if s.Ok() {
		return "success"
	}
	return "failed: " + strings.Join(s.Failures(), ", ")
}

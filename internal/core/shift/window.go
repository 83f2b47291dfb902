package shift

import (
	"fmt"

	"github.com/hay-kot/criterio"
)

// Window is a single fixed daily shift with a lunch break, recurring every
// calendar day. Lunch is excluded from work-time consumption.
type Window struct {
	Start      Clock `yaml:"start"`
	End        Clock `yaml:"end"`
	LunchStart Clock `yaml:"lunch_start"`
	LunchEnd   Clock `yaml:"lunch_end"`
}

// Validate rejects windows the projection loop cannot terminate on. It must
// run before any projection; a zero-width shift would spin forever.
func (w Window) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if w.End <= w.Start {
		errs = errs.Append("end", fmt.Errorf("shift end %s must be after shift start %s", w.End, w.Start))
	}
	if w.LunchEnd < w.LunchStart {
		errs = errs.Append("lunch_end", fmt.Errorf("lunch end %s must not be before lunch start %s", w.LunchEnd, w.LunchStart))
	}
	if w.LunchStart < w.Start || w.LunchEnd > w.End {
		errs = errs.Append("lunch_start", fmt.Errorf("lunch window %s-%s must fall inside the shift %s-%s", w.LunchStart, w.LunchEnd, w.Start, w.End))
	}

	return errs.ToError()
}

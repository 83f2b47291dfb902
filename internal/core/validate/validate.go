// Package validate provides shared validation functions for work item records.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/taskstream/internal/core/workitem"
)

// ItemKey validates a work item key is non-empty after trimming whitespace.
func ItemKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}
	return nil
}

// ItemKeyField returns a criterio validator for work item keys.
func ItemKeyField(field, key string) error {
	return criterio.Run(field, key, ItemKey)
}

// WorkItem validates a full record before it is saved. A failure rejects the
// save wholesale; callers must not write any derived fields on error.
func WorkItem(item workitem.WorkItem) error {
	return criterio.ValidateStruct(
		ItemKeyField("key", item.Key),
		distinctReviewer(item),
		validStatus(item),
		validRecurrence(item),
	)
}

func distinctReviewer(item workitem.WorkItem) error {
	if item.Assignee != "" && item.Assignee == item.Reviewer {
		return criterio.NewFieldErrors("reviewer", fmt.Errorf("assignee and reviewer cannot be the same"))
	}
	return nil
}

func validStatus(item workitem.WorkItem) error {
	if !item.Status.Valid() {
		return criterio.NewFieldErrors("status", fmt.Errorf("unknown status %q", item.Status))
	}
	return nil
}

func validRecurrence(item workitem.WorkItem) error {
	rec := item.Recurrence
	if rec == nil {
		return nil
	}

	var errs criterio.FieldErrorsBuilder

	if err := rec.Validate(); err != nil {
		var fieldErrs criterio.FieldErrors
		if ok := asFieldErrors(err, &fieldErrs); ok {
			for _, fe := range fieldErrs {
				errs = errs.Append("recurrence."+fe.Field, fe.Err)
			}
		} else {
			errs = errs.Append("recurrence", err)
		}
	}

	// Periodic types cannot expand without an end bound.
	if rec.Type() != workitem.RecurrenceOneTime && item.RepeatUntil.IsZero() {
		errs = errs.Append("repeat_until", fmt.Errorf("repeat until date is required for %s recurrence", rec.Type()))
	}

	return errs.ToError()
}

func asFieldErrors(err error, target *criterio.FieldErrors) bool {
	return errors.As(err, target)
}

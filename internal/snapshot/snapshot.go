// Package snapshot derives on-disk snapshot names from calendar dates.
package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// Snapshot identifies one dated backup directory.
type Snapshot struct {
	Date time.Time
	Name string
}

// Name formats date using a strftime template such as "%Y-%m-%d".
// It is deterministic: the same (date, template) pair always yields the
// same string, which is what lets later runs find and delete snapshots
// by recomputing their names.
func Name(date time.Time, template string) (string, error) {
	if err := ValidateTemplate(template); err != nil {
		return "", err
	}
	return strftime.Format(template, date), nil
}

// New builds a Snapshot for date under the given name template.
func New(date time.Time, template string) (Snapshot, error) {
	name, err := Name(date, template)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Date: date, Name: name}, nil
}

// ValidateTemplate rejects templates that are empty, contain path
// separators, or use specifiers strftime cannot expand.
func ValidateTemplate(template string) error {
	if template == "" {
		return fmt.Errorf("name template is empty")
	}
	if strings.ContainsAny(template, "/\\") {
		return fmt.Errorf("name template %q contains a path separator", template)
	}
	if _, err := strftime.Layout(template); err != nil {
		return fmt.Errorf("invalid name template %q: %w", template, err)
	}
	return nil
}

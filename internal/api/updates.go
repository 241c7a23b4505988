package api

import (
	"encoding/json"
	"fmt"

	"github.com/taskhive/taskhive/internal/domain"
)

// checkAllowedFields verifies that a partial-update payload names at least
// one field and only fields from the allow-list. This mirrors update
// semantics where unknown fields are rejected rather than silently ignored,
// so clients learn about typos instead of losing writes.
func checkAllowedFields(updates map[string]json.RawMessage, allowed map[string]bool) error {
	if len(updates) == 0 {
		return fmt.Errorf("%w: no fields to update", domain.ErrInvalidOperation)
	}
	for field := range updates {
		if !allowed[field] {
			return fmt.Errorf("%w: invalid update field %q", domain.ErrInvalidOperation, field)
		}
	}
	return nil
}

// applyUserUpdates copies validated update fields onto the user. A password
// update lands in the plaintext field; the store re-hashes it on save.
func applyUserUpdates(user *domain.User, updates map[string]json.RawMessage) error {
	if raw, ok := updates["name"]; ok {
		if err := json.Unmarshal(raw, &user.Name); err != nil {
			return fmt.Errorf("%w: name must be a string", domain.ErrValidation)
		}
	}
	if raw, ok := updates["email"]; ok {
		if err := json.Unmarshal(raw, &user.Email); err != nil {
			return fmt.Errorf("%w: email must be a string", domain.ErrValidation)
		}
	}
	if raw, ok := updates["password"]; ok {
		if err := json.Unmarshal(raw, &user.Password); err != nil {
			return fmt.Errorf("%w: password must be a string", domain.ErrValidation)
		}
	}
	if raw, ok := updates["age"]; ok {
		if err := json.Unmarshal(raw, &user.Age); err != nil {
			return fmt.Errorf("%w: age must be a number", domain.ErrValidation)
		}
	}
	return user.Validate()
}

// applyTaskUpdates copies validated update fields onto the task.
func applyTaskUpdates(task *domain.Task, updates map[string]json.RawMessage) error {
	if raw, ok := updates["description"]; ok {
		if err := json.Unmarshal(raw, &task.Description); err != nil {
			return fmt.Errorf("%w: description must be a string", domain.ErrValidation)
		}
	}
	if raw, ok := updates["completed"]; ok {
		if err := json.Unmarshal(raw, &task.Completed); err != nil {
			return fmt.Errorf("%w: completed must be a boolean", domain.ErrValidation)
		}
	}
	return task.Validate()
}

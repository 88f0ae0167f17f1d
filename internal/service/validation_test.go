package service

import (
	"strings"
	"testing"
)

func mustValidate(t *testing.T, in any) *ValidationError {
	t.Helper()
	ve, err := validateInput(in)
	if err != nil {
		t.Fatalf("validate %T: %v", in, err)
	}
	return ve
}

func TestValidateInputRejectsNonStruct(t *testing.T) {
	ve, err := validateInput("item_code")
	if err == nil || ve != nil {
		t.Fatalf("expected an error for a non-struct input, got ve=%v err=%v", ve, err)
	}
	if _, ok := IsValidationError(err); ok {
		t.Fatal("a non-struct input is a programming error, not a field error")
	}
}

func TestValidateInputUsesJSONFieldNames(t *testing.T) {
	ve := mustValidate(t, MasterItemInput{ItemName: strings.Repeat("x", 256)})
	if got := ve.Fields["item_code"]; got != "The item code field is required." {
		t.Fatalf("unexpected item_code message: %q", got)
	}
	if got := ve.Fields["item_name"]; got != "The item name field must not be greater than 255 characters." {
		t.Fatalf("unexpected item_name message: %q", got)
	}
	if len(ve.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %v", ve.Fields)
	}
}

func TestValidateInputRateBounds(t *testing.T) {
	neg, over, ok := -1.0, 100.5, 11.0
	ve := mustValidate(t, MasterItemInput{ItemCode: "A", ItemName: "B", PPN: &neg, PPH: &over})
	if got := ve.Fields["ppn"]; got != "The ppn field must be at least 0." {
		t.Fatalf("unexpected ppn message: %q", got)
	}
	if got := ve.Fields["pph"]; got != "The pph field must not be greater than 100." {
		t.Fatalf("unexpected pph message: %q", got)
	}

	ve = mustValidate(t, MasterItemInput{ItemCode: "A", ItemName: "B", PPN: &ok})
	if !ve.empty() {
		t.Fatalf("expected valid input, got %v", ve.Fields)
	}
}

func TestValidateInputPasswordRules(t *testing.T) {
	ve := mustValidate(t, CreateUserInput{Name: "A", Email: "not-an-email", Password: "short", PasswordConfirmation: "short"})
	if got := ve.Fields["email"]; got != "The email field must be a valid email address." {
		t.Fatalf("unexpected email message: %q", got)
	}
	if got := ve.Fields["password"]; got != "The password field must be at least 8 characters." {
		t.Fatalf("unexpected password message: %q", got)
	}

	ve = mustValidate(t, CreateUserInput{Name: "A", Email: "a@example.com", Password: "longenough", PasswordConfirmation: "different"})
	if got := ve.Fields["password"]; got != "The password field confirmation does not match." {
		t.Fatalf("unexpected confirmation message: %q", got)
	}

	ve = mustValidate(t, UpdateUserInput{Name: "A", Email: "a@example.com"})
	if !ve.empty() {
		t.Fatalf("expected blank password to be accepted on update, got %v", ve.Fields)
	}
}

func TestValidationErrorLookup(t *testing.T) {
	err := error(takenError("email"))
	ve, ok := IsValidationError(err)
	if !ok || ve.Fields["email"] != "The email has already been taken." {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if err.Error() != "validation failed: email" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if _, ok := IsValidationError(ErrInvalidCredentials); ok {
		t.Fatal("expected non-validation error to be rejected")
	}
}

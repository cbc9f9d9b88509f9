package testutil

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/arthur-debert/herald/pkg/types"
)

// AssertEqual checks if two values are equal using deep equality
func AssertEqual(t *testing.T, expected, actual interface{}, msgAndArgs ...interface{}) {
	t.Helper()

	if !reflect.DeepEqual(expected, actual) {
		msg := formatMessage(msgAndArgs...)
		t.Errorf("%sExpected: %+v\nActual: %+v", msg, expected, actual)
	}
}

// AssertTrue checks if a value is true
func AssertTrue(t *testing.T, value bool, msgAndArgs ...interface{}) {
	t.Helper()

	if !value {
		msg := formatMessage(msgAndArgs...)
		t.Errorf("%sExpected true, got false", msg)
	}
}

// AssertFalse checks if a value is false
func AssertFalse(t *testing.T, value bool, msgAndArgs ...interface{}) {
	t.Helper()

	if value {
		msg := formatMessage(msgAndArgs...)
		t.Errorf("%sExpected false, got true", msg)
	}
}

// AssertError checks if an error occurred
func AssertError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()

	if err == nil {
		msg := formatMessage(msgAndArgs...)
		t.Errorf("%sExpected an error but got nil", msg)
	}
}

// AssertNoError checks that no error occurred
func AssertNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()

	if err != nil {
		msg := formatMessage(msgAndArgs...)
		t.Errorf("%sUnexpected error: %v", msg, err)
	}
}

// AssertPanic checks that fn panics
func AssertPanic(t *testing.T, fn func(), msgAndArgs ...interface{}) {
	t.Helper()

	defer func() {
		if r := recover(); r == nil {
			msg := formatMessage(msgAndArgs...)
			t.Errorf("%sExpected panic but function returned normally", msg)
		}
	}()

	fn()
}

// AssertEventsEqual checks that two event slices are equal including
// order. Dispatch ordering is a contract here, so unlike a set compare
// this assertion never sorts.
func AssertEventsEqual(t *testing.T, expected, actual []types.Event, msgAndArgs ...interface{}) {
	t.Helper()

	if len(expected) != len(actual) {
		msg := formatMessage(msgAndArgs...)
		t.Errorf("%sEvent count mismatch. Expected: %d, Actual: %d\nExpected: %v\nActual: %v",
			msg, len(expected), len(actual), expected, actual)
		return
	}

	for i := range expected {
		if expected[i] != actual[i] {
			msg := formatMessage(msgAndArgs...)
			t.Errorf("%sEvent mismatch at index %d\nExpected: %v\nActual: %v",
				msg, i, expected, actual)
			return
		}
	}
}

// AssertEntriesEqual checks that two journal entry slices are equal
// including order.
func AssertEntriesEqual(t *testing.T, expected, actual []string, msgAndArgs ...interface{}) {
	t.Helper()

	if len(expected) != len(actual) {
		msg := formatMessage(msgAndArgs...)
		t.Errorf("%sEntry count mismatch. Expected: %d, Actual: %d\nExpected: %v\nActual: %v",
			msg, len(expected), len(actual), expected, actual)
		return
	}

	for i := range expected {
		if expected[i] != actual[i] {
			msg := formatMessage(msgAndArgs...)
			t.Errorf("%sEntry mismatch at index %d\nExpected: %v\nActual: %v",
				msg, i, expected, actual)
			return
		}
	}
}

// formatMessage formats optional message and arguments
func formatMessage(msgAndArgs ...interface{}) string {
	if len(msgAndArgs) == 0 {
		return ""
	}

	if len(msgAndArgs) == 1 {
		return fmt.Sprintf("%v\n", msgAndArgs[0])
	}

	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...) + "\n"
	}

	return fmt.Sprintf("%v\n", msgAndArgs)
}
